package service

import (
	"carevo_backend/internal/model"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	SheetOverview = "Overview"
	SheetHeatmap  = "Heatmap"
	SheetSkills   = "Skills"
)

// ExportOverview computes the overview and renders it as an xlsx workbook.
func (s *AnalyticsService) ExportOverview(ctx context.Context, userID uint, hints OverviewHints) ([]byte, error) {
	overview, err := s.ComputeOverview(ctx, userID, hints)
	if err != nil {
		return nil, err
	}
	return RenderOverviewWorkbook(overview)
}

// RenderOverviewWorkbook writes three sheets: scalar metrics, the heatmap grid
// (one row per week) and the top competencies.
func RenderOverviewWorkbook(o *model.OverviewResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetHeatmap); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetSkills); err != nil {
		return nil, err
	}

	metrics := [][]interface{}{
		{"Metric", "Value"},
		{"Target role", o.TargetRole},
		{"Market value", o.MarketValue},
		{"Market value change", o.MarketValueChange},
		{"Skill percentile", o.SkillPercentile},
		{"Skill percentile change", o.SkillPercentileChange},
		{"Interview readiness", o.InterviewReadiness},
		{"Interview readiness change", o.InterviewReadinessChange},
		{"Probability of success", o.ProbabilityOfSuccess},
		{"Contribution log", o.ContributionLog},
		{"Estimated breakthrough", o.EstimatedBreakthrough},
		{"Open jobs", o.JobMarket.TotalJobs},
		{"Job data source", string(o.JobMarket.Source)},
	}
	if err := writeRows(f, SheetOverview, metrics); err != nil {
		return nil, err
	}

	heatmap := make([][]interface{}, 0, model.HeatmapWeeks+1)
	header := []interface{}{"Week"}
	for d := 1; d <= model.HeatmapDays; d++ {
		header = append(header, fmt.Sprintf("Day %d", d))
	}
	heatmap = append(heatmap, header)
	for w, week := range o.Heatmap {
		row := []interface{}{w + 1}
		for _, c := range week {
			row = append(row, c)
		}
		heatmap = append(heatmap, row)
	}
	if err := writeRows(f, SheetHeatmap, heatmap); err != nil {
		return nil, err
	}

	skills := [][]interface{}{{"Skill", "Score"}}
	for _, c := range o.Competencies {
		skills = append(skills, []interface{}{c.Name, c.Score})
	}
	if err := writeRows(f, SheetSkills, skills); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
