package service

import (
	"carevo_backend/internal/model"
	"carevo_backend/internal/repository"
	"carevo_backend/internal/util"
	"carevo_backend/pkg/logger"
	"carevo_backend/pkg/monitoring"
	"carevo_backend/pkg/tracing"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OverviewHints carries optional request parameters.
type OverviewHints struct {
	Role string
}

type AnalyticsService struct {
	UserRepo         UserStore
	SkillRepo        SkillStore
	GamificationRepo GamificationStore
	RoadmapRepo      RoadmapStore
	TaskRepo         TaskStore
	QuizRepo         QuizStore
	CareerRepo       CareerStore
	Jobs             JobSearcher
	Now              Clock

	topSkills atomic.Int32
}

func NewAnalyticsService(
	userRepo UserStore,
	skillRepo SkillStore,
	gamificationRepo GamificationStore,
	roadmapRepo RoadmapStore,
	taskRepo TaskStore,
	quizRepo QuizStore,
	careerRepo CareerStore,
	jobs JobSearcher,
	now Clock,
	topSkills int,
) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	s := &AnalyticsService{
		UserRepo:         userRepo,
		SkillRepo:        skillRepo,
		GamificationRepo: gamificationRepo,
		RoadmapRepo:      roadmapRepo,
		TaskRepo:         taskRepo,
		QuizRepo:         quizRepo,
		CareerRepo:       careerRepo,
		Jobs:             jobs,
		Now:              now,
	}
	s.SetTopSkills(topSkills)
	return s
}

// SetTopSkills changes how many competencies the overview returns.
func (s *AnalyticsService) SetTopSkills(n int) {
	if n <= 0 {
		n = DefaultTopSkills
	}
	s.topSkills.Store(int32(n))
}

// overviewInputs is everything read from the stores for one overview.
type overviewInputs struct {
	user           *model.User
	gamification   *model.Gamification
	skills         []model.SkillRecord
	roadmap        *model.Roadmap
	quizzes        []model.Quiz
	totalTasks     int64
	completedTasks int64
	recentTasks    []model.RoadmapTask
}

func (s *AnalyticsService) load(ctx context.Context, userID uint, windowStart time.Time) (*overviewInputs, error) {
	in := &overviewInputs{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		in.user, err = s.UserRepo.FindByID(ctx, userID)
		return wrapLoad("user", err)
	})
	g.Go(func() (err error) {
		in.gamification, err = s.GamificationRepo.FindByUser(ctx, userID)
		return wrapLoad("gamification", err)
	})
	g.Go(func() (err error) {
		in.skills, err = s.SkillRepo.FindByUser(ctx, userID)
		return wrapLoad("skills", err)
	})
	g.Go(func() (err error) {
		in.roadmap, err = s.RoadmapRepo.FindFirstByUser(ctx, userID, 0)
		return wrapLoad("roadmap", err)
	})
	g.Go(func() (err error) {
		in.quizzes, err = s.QuizRepo.ListSubmitted(ctx, userID, repository.QuizFilter{})
		return wrapLoad("quizzes", err)
	})
	g.Go(func() (err error) {
		in.totalTasks, err = s.TaskRepo.CountTasks(ctx, userID, repository.TaskFilter{})
		return wrapLoad("task count", err)
	})
	g.Go(func() (err error) {
		in.completedTasks, err = s.TaskRepo.CountTasks(ctx, userID, repository.TaskFilter{CompletedOnly: true})
		return wrapLoad("completed task count", err)
	})
	g.Go(func() (err error) {
		since := windowStart
		in.recentTasks, err = s.TaskRepo.ListTasks(ctx, userID, repository.TaskFilter{CompletedOnly: true, Since: &since})
		return wrapLoad("recent tasks", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}

func wrapLoad(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load %s: %w", what, err)
}

// ResolveTargetRole picks roadmap career, then first interest, then the hint,
// then util.NotApplicableRole.
func ResolveTargetRole(roadmap *model.Roadmap, user *model.User, hint string) string {
	candidates := []string{hint}
	if user != nil {
		candidates = append([]string{user.PrimaryInterest()}, candidates...)
	}
	if roadmap != nil {
		candidates = append([]string{roadmap.CareerName}, candidates...)
	}
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return util.NotApplicableRole
}

// ComputeOverview assembles the analytics dashboard for one user. Store
// failures fail the call; job search failures degrade to mock data.
func (s *AnalyticsService) ComputeOverview(ctx context.Context, userID uint, hints OverviewHints) (*model.OverviewResult, error) {
	started := time.Now()
	ctx, span := tracing.StartSpan(ctx, "analytics.ComputeOverview", attribute.Int("user.id", int(userID)))
	defer span.End()
	defer func() { monitoring.OverviewDuration.Observe(time.Since(started).Seconds()) }()

	now := s.Now()
	windowStart := ActivityWindowStart(now)

	in, err := s.load(ctx, userID, windowStart)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	g := in.gamification
	if g == nil {
		g = &model.Gamification{UserID: userID}
	}

	skills := AggregateSkills(in.skills, int(s.topSkills.Load()))

	roadmapProgress := 0.0
	totalDays := 0
	if in.roadmap != nil {
		roadmapProgress = clamp(in.roadmap.ProgressPercentage, 0, 100)
		totalDays = in.roadmap.TotalDays
	}

	taskCompletionRate := Percent(float64(in.completedTasks), float64(in.totalTasks))

	var accuracySum float64
	passed := 0
	for _, q := range in.quizzes {
		accuracySum += q.Accuracy
		if q.Passed {
			passed++
		}
	}
	avgQuizAccuracy := Ratio(accuracySum, float64(len(in.quizzes)))
	quizPassRate := Percent(float64(passed), float64(len(in.quizzes)))

	targetRole := ResolveTargetRole(in.roadmap, in.user, hints.Role)
	span.SetAttributes(attribute.String("target_role", targetRole))

	baseSalary, maxSalary := util.DefaultBaseSalary, util.DefaultMaxSalary
	if targetRole != util.NotApplicableRole {
		career, err := s.CareerRepo.FindByName(ctx, targetRole)
		if err != nil {
			err = wrapLoad("career", err)
			tracing.RecordError(span, err)
			return nil, err
		}
		if career != nil && career.AverageSalaryRange.Max > 0 {
			baseSalary = career.AverageSalaryRange.Min
			maxSalary = career.AverageSalaryRange.Max
		}
	}

	activity := CollectActivity(in.recentTasks, in.quizzes, in.gamification, windowStart)
	heatmap := BuildHeatmap(activity, now)

	result := &model.OverviewResult{
		MarketValue: MarketValue(MarketValueInput{
			BaseSalary:          baseSalary,
			MaxSalary:           maxSalary,
			SkillReadiness:      skills.Readiness(),
			RoadmapProgress:     roadmapProgress,
			HighestLevelOrdinal: skills.HighestLevelOrdinal,
			TaskCompletionRate:  taskCompletionRate,
		}),
		MarketValueChange:        MarketValueChange(g.DailyXP, g.XP, g.Streak),
		SkillPercentile:          SkillPercentile(skills.AvgSkillScore, avgQuizAccuracy, taskCompletionRate),
		SkillPercentileChange:    SkillPercentileChange(passed),
		InterviewReadiness:       InterviewReadiness(quizPassRate, roadmapProgress, skills.ValidationCoverage(), avgQuizAccuracy, g.Streak),
		InterviewReadinessChange: InterviewReadinessChange(g.Streak),
		ProbabilityOfSuccess:     Probability(roadmapProgress, XPFactor(g.XP), StreakFactor(g.Streak)),
		ContributionLog:          len(activity),
		Heatmap:                  heatmap,
		XPSeries:                 XPSeries(g.XP),
		Competencies:             skills.PerSkill,
		TargetRole:               targetRole,
		EstimatedBreakthrough:    EstimatedBreakthrough(totalDays),
		ContributionDates:        contributionDates(activity),
		JobMarket:                s.jobMarket(ctx, targetRole),
	}

	return result, nil
}

func contributionDates(activity []ActivityDate) []string {
	dates := make([]string, 0, len(activity))
	for _, a := range activity {
		dates = append(dates, a.Day.Format(util.DateFormat))
	}
	sort.Strings(dates)
	return dates
}

func (s *AnalyticsService) jobMarket(ctx context.Context, role string) model.JobMarketSummary {
	if role == util.NotApplicableRole || s.Jobs == nil {
		return model.JobMarketSummary{Jobs: []model.JobListing{}, Source: model.JobSourceNone}
	}

	outcome := s.Jobs.Search(ctx, role)
	if outcome.Degraded != nil {
		logger.Log.Warn("job market lookup degraded, using fallback",
			zap.String("role", role), zap.Error(outcome.Degraded))
		monitoring.JobMarketLookups.WithLabelValues(string(model.JobSourceFallback)).Inc()
		return model.JobMarketSummary{
			TotalJobs: MockJobCount(role),
			Jobs:      []model.JobListing{},
			Source:    model.JobSourceFallback,
		}
	}

	monitoring.JobMarketLookups.WithLabelValues(string(outcome.Source)).Inc()
	jobs := outcome.Result.Jobs
	if jobs == nil {
		jobs = []model.JobListing{}
	}
	return model.JobMarketSummary{
		TotalJobs: outcome.Result.TotalJobs,
		Jobs:      jobs,
		Source:    outcome.Source,
	}
}
