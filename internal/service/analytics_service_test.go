package service

import (
	"carevo_backend/internal/model"
	"carevo_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestAnalytics(fs *fakeStore, jobs JobSearcher) *AnalyticsService {
	return NewAnalyticsService(
		fakeUsers{fs}, fakeSkills{fs}, fakeGamification{fs}, fakeRoadmaps{fs},
		fakeTasks{fs}, fakeQuizzes{fs}, fakeCareers{fs},
		jobs, frozenClock(testNow), 0,
	)
}

func seedUser(t *testing.T, fs *fakeStore, interests ...string) uint {
	t.Helper()
	u := &model.User{Name: "ada", Email: "ada@example.com", CareerInterests: interests}
	if err := (fakeUsers{fs}).Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

func TestOverviewEmptyUser(t *testing.T) {
	fs := newFakeStore()
	jobs := &fakeJobs{}
	userID := seedUser(t, fs)

	got, err := newTestAnalytics(fs, jobs).ComputeOverview(context.Background(), userID, OverviewHints{})
	if err != nil {
		t.Fatalf("ComputeOverview: %v", err)
	}

	if got.MarketValue != 50000 {
		t.Errorf("MarketValue = %d, want 50000", got.MarketValue)
	}
	if got.SkillPercentile != 0 {
		t.Errorf("SkillPercentile = %d, want 0", got.SkillPercentile)
	}
	if got.InterviewReadiness != 0 {
		t.Errorf("InterviewReadiness = %d, want 0", got.InterviewReadiness)
	}
	if got.Heatmap.Total() != 0 {
		t.Errorf("heatmap total = %d, want 0", got.Heatmap.Total())
	}
	if got.TargetRole != util.NotApplicableRole {
		t.Errorf("TargetRole = %q, want %q", got.TargetRole, util.NotApplicableRole)
	}
	if got.JobMarket.Source != model.JobSourceNone || got.JobMarket.Jobs == nil {
		t.Errorf("JobMarket = %+v, want source none with empty jobs", got.JobMarket)
	}
	if len(jobs.calls) != 0 {
		t.Errorf("job search called %v for N/A role", jobs.calls)
	}
	if got.EstimatedBreakthrough != "6 months" {
		t.Errorf("EstimatedBreakthrough = %q, want 6 months", got.EstimatedBreakthrough)
	}
	if got.ContributionLog != 0 || len(got.ContributionDates) != 0 {
		t.Errorf("contributions = %d %v, want none", got.ContributionLog, got.ContributionDates)
	}
}

func TestOverviewProbabilityAtMaximum(t *testing.T) {
	fs := newFakeStore()
	userID := seedUser(t, fs)
	fs.gam[userID] = &model.Gamification{UserID: userID, XP: 10000, Streak: 30}
	fs.maps = append(fs.maps, model.Roadmap{
		BaseModel: model.BaseModel{ID: 99}, UserID: userID, CareerID: 1,
		CareerName: "Backend Developer", TotalDays: 60, ProgressPercentage: 100,
	})

	got, err := newTestAnalytics(fs, &fakeJobs{outcome: JobSearchOutcome{Degraded: util.ErrJobSearchUnavailable}}).
		ComputeOverview(context.Background(), userID, OverviewHints{})
	if err != nil {
		t.Fatalf("ComputeOverview: %v", err)
	}
	if got.ProbabilityOfSuccess != 100 {
		t.Errorf("ProbabilityOfSuccess = %d, want 100", got.ProbabilityOfSuccess)
	}
	if got.EstimatedBreakthrough != "2 months" {
		t.Errorf("EstimatedBreakthrough = %q, want 2 months", got.EstimatedBreakthrough)
	}
	if got.TargetRole != "Backend Developer" {
		t.Errorf("TargetRole = %q, want Backend Developer", got.TargetRole)
	}
}

func TestOverviewSkillPercentile(t *testing.T) {
	fs := newFakeStore()
	userID := seedUser(t, fs)

	fs.skills = append(fs.skills, model.SkillRecord{
		UserID: userID, CareerID: 1,
		Skills: []model.SkillEntry{{Name: "python", FinalScore: util.IntPtr(80)}},
	})
	fs.quizzes = append(fs.quizzes, model.Quiz{
		BaseModel: model.BaseModel{ID: 1, UpdatedAt: testNow.AddDate(0, 0, -3)},
		UserID:    userID, Status: model.QuizSubmitted, Accuracy: 90, Passed: true,
	})
	done := testNow.AddDate(0, 0, -2)
	fs.tasks = append(fs.tasks,
		model.RoadmapTask{BaseModel: model.BaseModel{ID: 2}, UserID: userID, CompletedAt: &done},
		model.RoadmapTask{BaseModel: model.BaseModel{ID: 3}, UserID: userID},
	)

	got, err := newTestAnalytics(fs, &fakeJobs{}).ComputeOverview(context.Background(), userID, OverviewHints{})
	if err != nil {
		t.Fatalf("ComputeOverview: %v", err)
	}
	if got.SkillPercentile != 76 {
		t.Errorf("SkillPercentile = %d, want 76", got.SkillPercentile)
	}
	if got.SkillPercentileChange != 1 {
		t.Errorf("SkillPercentileChange = %d, want 1", got.SkillPercentileChange)
	}
	if got.ContributionLog != 2 || got.Heatmap.Total() != 2 {
		t.Errorf("ContributionLog = %d, heatmap = %d, want 2 and 2", got.ContributionLog, got.Heatmap.Total())
	}
	wantDates := []string{"2024-06-12", "2024-06-13"}
	if !equalStrings(got.ContributionDates, wantDates) {
		t.Errorf("ContributionDates = %v, want %v", got.ContributionDates, wantDates)
	}
	if len(got.Competencies) != 1 || got.Competencies[0].Score != 80 {
		t.Errorf("Competencies = %v, want [{python 80}]", got.Competencies)
	}
}

func TestOverviewIsIdempotent(t *testing.T) {
	fs := newFakeStore()
	userID := seedUser(t, fs, "Data Scientist")
	last := testNow.AddDate(0, 0, -1)
	fs.gam[userID] = &model.Gamification{UserID: userID, XP: 640, DailyXP: 40, Streak: 6, TotalCheckIns: 20, LastCheckIn: &last}
	fs.skills = append(fs.skills, model.SkillRecord{
		UserID: userID, CareerID: 2,
		Skills: []model.SkillEntry{{Name: "statistics", SelfRating: util.IntPtr(55)}},
	})

	svc := newTestAnalytics(fs, &fakeJobs{outcome: JobSearchOutcome{Degraded: util.ErrJobSearchUnavailable}})
	first, err := svc.ComputeOverview(context.Background(), userID, OverviewHints{})
	if err != nil {
		t.Fatalf("first ComputeOverview: %v", err)
	}
	second, err := svc.ComputeOverview(context.Background(), userID, OverviewHints{})
	if err != nil {
		t.Fatalf("second ComputeOverview: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("overview changed between calls:\n%s\n%s", a, b)
	}
}

func TestOverviewDegradedJobSearch(t *testing.T) {
	fs := newFakeStore()
	userID := seedUser(t, fs, "Data Scientist")

	got, err := newTestAnalytics(fs, &fakeJobs{outcome: JobSearchOutcome{Degraded: errors.New("timeout")}}).
		ComputeOverview(context.Background(), userID, OverviewHints{})
	if err != nil {
		t.Fatalf("ComputeOverview: %v", err)
	}
	if got.JobMarket.Source != model.JobSourceFallback {
		t.Errorf("Source = %q, want fallback", got.JobMarket.Source)
	}
	if got.JobMarket.TotalJobs != 5200 {
		t.Errorf("TotalJobs = %d, want 5200", got.JobMarket.TotalJobs)
	}
	if got.JobMarket.Jobs == nil {
		t.Error("Jobs is nil, want empty slice")
	}
}

func TestOverviewLiveJobSearch(t *testing.T) {
	fs := newFakeStore()
	userID := seedUser(t, fs)
	jobs := &fakeJobs{outcome: JobSearchOutcome{
		Result: JobSearchResult{TotalJobs: 42, Jobs: []model.JobListing{{Title: "SRE", Company: "Acme"}}},
		Source: model.JobSourceLive,
	}}

	got, err := newTestAnalytics(fs, jobs).ComputeOverview(context.Background(), userID, OverviewHints{Role: "Site Reliability"})
	if err != nil {
		t.Fatalf("ComputeOverview: %v", err)
	}
	if got.TargetRole != "Site Reliability" {
		t.Errorf("TargetRole = %q, want role hint", got.TargetRole)
	}
	if got.JobMarket.TotalJobs != 42 || got.JobMarket.Source != model.JobSourceLive || len(got.JobMarket.Jobs) != 1 {
		t.Errorf("JobMarket = %+v, want live result", got.JobMarket)
	}
	if len(jobs.calls) != 1 || jobs.calls[0] != "Site Reliability" {
		t.Errorf("job search calls = %v", jobs.calls)
	}
}

func TestOverviewCareerSalaryRange(t *testing.T) {
	fs := newFakeStore()
	userID := seedUser(t, fs, "Data Scientist")
	fs.careers = append(fs.careers, model.Career{
		BaseModel: model.BaseModel{ID: 7}, Name: "Data Scientist",
		AverageSalaryRange: model.SalaryRange{Min: 90000, Max: 160000},
	})

	got, err := newTestAnalytics(fs, &fakeJobs{outcome: JobSearchOutcome{Degraded: util.ErrJobSearchUnavailable}}).
		ComputeOverview(context.Background(), userID, OverviewHints{})
	if err != nil {
		t.Fatalf("ComputeOverview: %v", err)
	}
	if got.MarketValue != 90000 {
		t.Errorf("MarketValue = %d, want 90000", got.MarketValue)
	}
}

func TestOverviewCareerMissUsesDefaults(t *testing.T) {
	fs := newFakeStore()
	userID := seedUser(t, fs, "Underwater Basket Weaver")

	got, err := newTestAnalytics(fs, &fakeJobs{outcome: JobSearchOutcome{Degraded: util.ErrJobSearchUnavailable}}).
		ComputeOverview(context.Background(), userID, OverviewHints{})
	if err != nil {
		t.Fatalf("ComputeOverview: %v", err)
	}
	if got.MarketValue != util.DefaultBaseSalary {
		t.Errorf("MarketValue = %d, want %d", got.MarketValue, util.DefaultBaseSalary)
	}
	if got.JobMarket.TotalJobs != MockJobCount("Underwater Basket Weaver") {
		t.Errorf("TotalJobs = %d, want mock count", got.JobMarket.TotalJobs)
	}
}

func TestOverviewStoreFailureIsFatal(t *testing.T) {
	fs := newFakeStore()
	userID := seedUser(t, fs)
	fs.err = errStoreDown

	_, err := newTestAnalytics(fs, &fakeJobs{}).ComputeOverview(context.Background(), userID, OverviewHints{})
	if !errors.Is(err, errStoreDown) {
		t.Errorf("ComputeOverview error = %v, want %v", err, errStoreDown)
	}
}

func TestResolveTargetRole(t *testing.T) {
	withInterest := &model.User{CareerInterests: []string{"UX Designer"}}
	tests := []struct {
		name    string
		roadmap *model.Roadmap
		user    *model.User
		hint    string
		want    string
	}{
		{"roadmap first", &model.Roadmap{CareerName: "DevOps Engineer"}, withInterest, "hint", "DevOps Engineer"},
		{"interest second", nil, withInterest, "hint", "UX Designer"},
		{"blank roadmap name skipped", &model.Roadmap{CareerName: " "}, withInterest, "", "UX Designer"},
		{"hint third", nil, &model.User{}, "Product Manager", "Product Manager"},
		{"nothing", nil, nil, "", util.NotApplicableRole},
	}
	for _, tt := range tests {
		if got := ResolveTargetRole(tt.roadmap, tt.user, tt.hint); got != tt.want {
			t.Errorf("%s: ResolveTargetRole = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSetTopSkills(t *testing.T) {
	fs := newFakeStore()
	userID := seedUser(t, fs)
	var entries []model.SkillEntry
	for i := 0; i < 10; i++ {
		entries = append(entries, model.SkillEntry{Name: string(rune('a' + i)), SelfRating: util.IntPtr(50)})
	}
	fs.skills = append(fs.skills, model.SkillRecord{UserID: userID, Skills: entries})

	svc := newTestAnalytics(fs, &fakeJobs{})
	got, _ := svc.ComputeOverview(context.Background(), userID, OverviewHints{})
	if len(got.Competencies) != DefaultTopSkills {
		t.Errorf("len(Competencies) = %d, want %d", len(got.Competencies), DefaultTopSkills)
	}

	svc.SetTopSkills(3)
	got, _ = svc.ComputeOverview(context.Background(), userID, OverviewHints{})
	if len(got.Competencies) != 3 {
		t.Errorf("len(Competencies) after SetTopSkills(3) = %d, want 3", len(got.Competencies))
	}
}

func TestOverviewTodayCountsButIsNotPlotted(t *testing.T) {
	fs := newFakeStore()
	userID := seedUser(t, fs)
	done := testNow
	yesterday := testNow.AddDate(0, 0, -1)
	fs.tasks = append(fs.tasks,
		model.RoadmapTask{BaseModel: model.BaseModel{ID: 1}, UserID: userID, CompletedAt: &done},
		model.RoadmapTask{BaseModel: model.BaseModel{ID: 2}, UserID: userID, CompletedAt: &yesterday},
	)

	got, err := newTestAnalytics(fs, &fakeJobs{}).ComputeOverview(context.Background(), userID, OverviewHints{})
	if err != nil {
		t.Fatalf("ComputeOverview: %v", err)
	}

	if got.ContributionLog != 2 {
		t.Errorf("ContributionLog = %d, want 2", got.ContributionLog)
	}
	if got.Heatmap.Total() != 1 || got.Heatmap[51][6] != 1 {
		t.Errorf("heatmap total = %d last cell = %d, want only yesterday plotted", got.Heatmap.Total(), got.Heatmap[51][6])
	}
	want := []string{"2024-06-14", "2024-06-15"}
	if len(got.ContributionDates) != 2 || got.ContributionDates[0] != want[0] || got.ContributionDates[1] != want[1] {
		t.Errorf("ContributionDates = %v, want %v", got.ContributionDates, want)
	}
}
