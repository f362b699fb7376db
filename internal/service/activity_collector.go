package service

import (
	"carevo_backend/internal/model"
	"time"
)

// ActivityWindowDays is the trailing window activity is collected over.
const ActivityWindowDays = 365

type ActivitySource string

const (
	ActivityTask    ActivitySource = "task"
	ActivityQuiz    ActivitySource = "quiz"
	ActivityCheckIn ActivitySource = "checkin"
)

// ActivityDate is one countable action attributed to a calendar day.
// Several actions on the same day stay separate entries.
type ActivityDate struct {
	Day    time.Time
	Source ActivitySource
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ActivityWindowStart is the oldest instant counted as recent activity.
func ActivityWindowStart(now time.Time) time.Time {
	return now.AddDate(0, 0, -ActivityWindowDays)
}

// CollectActivity merges completed tasks, submitted quizzes and the check-in
// back-fill into one list of activity days.
func CollectActivity(tasks []model.RoadmapTask, quizzes []model.Quiz, g *model.Gamification, windowStart time.Time) []ActivityDate {
	loc := windowStart.Location()
	var out []ActivityDate

	for _, t := range tasks {
		if t.CompletedAt == nil || t.CompletedAt.Before(windowStart) {
			continue
		}
		out = append(out, ActivityDate{Day: StartOfDay(t.CompletedAt.In(loc)), Source: ActivityTask})
	}

	for _, q := range quizzes {
		if q.Status != model.QuizSubmitted || q.UpdatedAt.Before(windowStart) {
			continue
		}
		out = append(out, ActivityDate{Day: StartOfDay(q.UpdatedAt.In(loc)), Source: ActivityQuiz})
	}

	if g != nil && g.LastCheckIn != nil {
		out = append(out, BackfillCheckIns(g.LastCheckIn.In(loc), g.Streak, g.TotalCheckIns, windowStart)...)
	}

	return out
}

// BackfillCheckIns approximates check-in history, which is not stored per day.
//
// It emits lastCheckIn itself, then min(streak, total)-1 consecutive days before
// it, then one day every third day for the check-ins older than the streak,
// starting streak+1 days back. Only the scattered entries are window-filtered.
func BackfillCheckIns(lastCheckIn time.Time, streak, totalCheckIns int, windowStart time.Time) []ActivityDate {
	last := StartOfDay(lastCheckIn)
	out := []ActivityDate{{Day: last, Source: ActivityCheckIn}}

	streakDays := streak
	if totalCheckIns < streakDays {
		streakDays = totalCheckIns
	}
	for d := 1; d < streakDays; d++ {
		out = append(out, ActivityDate{Day: last.AddDate(0, 0, -d), Source: ActivityCheckIn})
	}

	remaining := totalCheckIns - streak
	if remaining < 0 {
		remaining = 0
	}
	for d := 0; d < remaining; d++ {
		day := last.AddDate(0, 0, -(streak + d*3 + 1))
		if day.Before(StartOfDay(windowStart)) {
			continue
		}
		out = append(out, ActivityDate{Day: day, Source: ActivityCheckIn})
	}

	return out
}
