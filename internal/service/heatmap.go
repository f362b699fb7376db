package service

import (
	"carevo_backend/internal/model"
	"time"
)

const heatmapCells = model.HeatmapWeeks * model.HeatmapDays

// HeatmapStart is midnight 364 days before now. Columns are every 7th day
// from here and are not aligned to calendar weeks.
func HeatmapStart(now time.Time) time.Time {
	return StartOfDay(now).AddDate(0, 0, -heatmapCells)
}

// dayOffset counts calendar days from start to day, independent of DST.
func dayOffset(start, day time.Time) int {
	sy, sm, sd := start.Date()
	dy, dm, dd := day.In(start.Location()).Date()
	a := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	b := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// heatmapCell maps day to its cell index; ok is false outside the grid.
func heatmapCell(start, day time.Time) (idx int, ok bool) {
	idx = dayOffset(start, day)
	return idx, idx >= 0 && idx < heatmapCells
}

// BuildHeatmap counts activity per day over the 364 cells starting at
// HeatmapStart(now). The last cell is yesterday, so activity from today is
// not on the grid yet although it counts toward contributionLog. Entries
// outside the grid are dropped.
func BuildHeatmap(dates []ActivityDate, now time.Time) model.Heatmap {
	var grid model.Heatmap
	start := HeatmapStart(now)

	for _, a := range dates {
		idx, ok := heatmapCell(start, a.Day)
		if !ok {
			continue
		}
		grid[idx/model.HeatmapDays][idx%model.HeatmapDays]++
	}

	return grid
}
