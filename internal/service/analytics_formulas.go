package service

import (
	"fmt"
	"math"
)

// FirstDefined returns the first non-nil value, or 0.
func FirstDefined(values ...*int) int {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

// Ratio returns num/den, or 0 when den is 0.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Percent returns num/den*100, or 0 when den is 0.
func Percent(num, den float64) float64 {
	return Ratio(num, den) * 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

// XPFactor normalizes total XP onto 0..100 (10000 XP saturates).
func XPFactor(xp int) float64 {
	return math.Min(100, float64(xp)/10000*100)
}

// StreakFactor normalizes a streak onto 0..100 (30 days saturates).
func StreakFactor(streak int) float64 {
	return math.Min(100, float64(streak)/30*100)
}

// Probability is the probability-of-success score. progress is already 0..100.
func Probability(progress, xpFactor, streakFactor float64) int {
	return roundInt(clamp(0.5*progress+0.3*xpFactor+0.2*streakFactor, 0, 100))
}

type MarketValueInput struct {
	BaseSalary          int
	MaxSalary           int
	SkillReadiness      float64 // 0..1
	RoadmapProgress     float64 // 0..100
	HighestLevelOrdinal int     // 0..3
	TaskCompletionRate  float64 // 0..100
}

// MarketReadiness is the 0..1 composite used to interpolate the salary range.
func MarketReadiness(in MarketValueInput) float64 {
	r := 0.55*in.SkillReadiness +
		0.2*(in.RoadmapProgress/100) +
		0.15*(float64(in.HighestLevelOrdinal)/3) +
		0.1*(in.TaskCompletionRate/100)
	return clamp(r, 0, 1)
}

func MarketValue(in MarketValueInput) int {
	spread := float64(in.MaxSalary - in.BaseSalary)
	return roundInt(float64(in.BaseSalary) + spread*MarketReadiness(in))
}

func MarketValueChange(dailyXP, totalXP, streak int) int {
	if totalXP <= 0 {
		return 0
	}
	growth := float64(dailyXP)/math.Max(1, float64(totalXP))*100 + float64(streak)*0.2
	return roundInt(math.Min(15, growth))
}

func SkillPercentile(avgSkillScore, avgQuizAccuracy, taskCompletionRate float64) int {
	p := 0.6*avgSkillScore + 0.2*avgQuizAccuracy + 0.2*taskCompletionRate
	return roundInt(clamp(p, 0, 99))
}

func InterviewReadiness(quizPassRate, roadmapProgress, validationCoverage, avgQuizAccuracy float64, streak int) int {
	r := 0.3*quizPassRate +
		0.25*roadmapProgress +
		0.25*validationCoverage +
		0.15*math.Min(100, avgQuizAccuracy) +
		math.Min(30, float64(streak))/30*5
	return roundInt(clamp(r, 0, 100))
}

// SkillPercentileChange is an engagement bonus, not a delta against history.
func SkillPercentileChange(passedQuizzes int) int {
	if passedQuizzes > 8 {
		return 8
	}
	return passedQuizzes
}

// InterviewReadinessChange is an engagement bonus, not a delta against history.
func InterviewReadinessChange(streak int) int {
	if streak <= 3 {
		return 0
	}
	bonus := roundInt(float64(streak) * 0.3)
	if bonus > 5 {
		return 5
	}
	return bonus
}

// XPSeries spreads total XP over 12 evenly spaced points.
func XPSeries(totalXP int) []int {
	series := make([]int, 12)
	for i := range series {
		series[i] = roundInt(float64(totalXP) * float64(i+1) / 12)
	}
	return series
}

// EstimatedBreakthrough converts a roadmap length into whole months.
func EstimatedBreakthrough(totalDays int) string {
	if totalDays <= 0 {
		return "6 months"
	}
	months := int(math.Ceil(float64(totalDays) / 30))
	if months < 1 {
		months = 1
	}
	return fmt.Sprintf("%d months", months)
}
