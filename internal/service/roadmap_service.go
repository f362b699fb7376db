package service

import (
	"carevo_backend/internal/model"
	"carevo_backend/internal/repository"
	"carevo_backend/internal/util"
	"context"
	"fmt"
	"strings"
	"time"
)

// RoadmapInput 生成学习路线请求
// swagger:model RoadmapInput
type RoadmapInput struct {
	CareerID  uint `json:"careerId" binding:"required"`
	TotalDays int  `json:"totalDays" binding:"omitempty,min=7,max=180"`
}

// TaskCompletion 完成任务的结果
type TaskCompletion struct {
	Task               *model.RoadmapTask `json:"task"`
	ProgressPercentage float64            `json:"progressPercentage"`
	XPAwarded          int                `json:"xpAwarded"`
	NewBadges          []model.Badge      `json:"newBadges"`
}

type roadmapDay struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type RoadmapService struct {
	RoadmapRepo  RoadmapStore
	TaskRepo     TaskStore
	SkillRepo    SkillStore
	CareerRepo   CareerStore
	AI           ChatModel
	Gamification *GamificationService
	Now          Clock
}

func NewRoadmapService(
	roadmapRepo RoadmapStore,
	taskRepo TaskStore,
	skillRepo SkillStore,
	careerRepo CareerStore,
	ai ChatModel,
	gamification *GamificationService,
	now Clock,
) *RoadmapService {
	if now == nil {
		now = time.Now
	}
	return &RoadmapService{
		RoadmapRepo:  roadmapRepo,
		TaskRepo:     taskRepo,
		SkillRepo:    skillRepo,
		CareerRepo:   careerRepo,
		AI:           ai,
		Gamification: gamification,
		Now:          now,
	}
}

const roadmapSystemPrompt = "You are a career coach who plans daily study. Reply with JSON only, no prose."

// Generate asks the model for a day-by-day plan and replaces any previous
// roadmap the user had for the same career.
func (s *RoadmapService) Generate(ctx context.Context, userID uint, in RoadmapInput) (*model.Roadmap, error) {
	totalDays := in.TotalDays
	if totalDays == 0 {
		totalDays = util.DefaultRoadmapDays
	}
	if totalDays < util.MinRoadmapDays || totalDays > util.MaxRoadmapDays {
		return nil, util.ErrInvalidRoadmapDays
	}

	career, err := s.CareerRepo.FindByID(ctx, in.CareerID)
	if err != nil {
		return nil, err
	}
	if career == nil {
		return nil, util.ErrCareerNotFound
	}

	record, err := s.SkillRepo.FindByUserAndCareer(ctx, userID, career.ID)
	if err != nil {
		return nil, err
	}

	reply, err := s.AI.Chat(ctx, roadmapSystemPrompt, roadmapPrompt(career, record, totalDays))
	if err != nil {
		return nil, err
	}

	days, err := parseRoadmapDays(reply, totalDays)
	if err != nil {
		return nil, err
	}

	roadmap := &model.Roadmap{
		UserID:     userID,
		CareerID:   career.ID,
		CareerName: career.Name,
		TotalDays:  totalDays,
		Tasks:      make([]model.RoadmapTask, 0, len(days)),
	}
	for _, d := range days {
		roadmap.Tasks = append(roadmap.Tasks, model.RoadmapTask{
			UserID:      userID,
			Day:         d.Day,
			Title:       d.Title,
			Description: d.Description,
			XPReward:    util.TaskXPReward,
		})
	}

	if err := s.RoadmapRepo.Replace(ctx, roadmap); err != nil {
		return nil, fmt.Errorf("store roadmap: %w", err)
	}
	return roadmap, nil
}

func roadmapPrompt(career *model.Career, record *model.SkillRecord, totalDays int) string {
	var skills []string
	if record != nil {
		for _, e := range record.Skills {
			skills = append(skills, fmt.Sprintf("%s (%d/100)", e.Name, SkillValue(e)))
		}
	}
	current := "none listed"
	if len(skills) > 0 {
		current = strings.Join(skills, ", ")
	}
	required := strings.Join(career.RequiredSkills, ", ")

	return fmt.Sprintf(
		"Plan a %d-day learning roadmap to become a %s. Skills the role needs: %s. "+
			"The learner's current skills: %s. Return a JSON array with exactly %d objects "+
			"with keys \"day\" (1-based number), \"title\" and \"description\".",
		totalDays, career.Name, required, current, totalDays)
}

// parseRoadmapDays returns one entry per day 1..totalDays. Days the model
// skipped or duplicated get a review task so the plan has no gaps.
func parseRoadmapDays(reply string, totalDays int) ([]roadmapDay, error) {
	var raw []roadmapDay
	if err := decodeModelJSON(reply, &raw); err != nil {
		return nil, err
	}

	byDay := make(map[int]roadmapDay, totalDays)
	for i, d := range raw {
		if d.Day == 0 {
			d.Day = i + 1
		}
		d.Title = strings.TrimSpace(d.Title)
		if d.Day < 1 || d.Day > totalDays || d.Title == "" {
			continue
		}
		if _, dup := byDay[d.Day]; !dup {
			byDay[d.Day] = d
		}
	}
	if len(byDay) == 0 {
		return nil, fmt.Errorf("%w: roadmap reply has no usable days", util.ErrAIUnavailable)
	}

	out := make([]roadmapDay, 0, totalDays)
	for day := 1; day <= totalDays; day++ {
		d, ok := byDay[day]
		if !ok {
			d = roadmapDay{Day: day, Title: "Review and practice", Description: "Revisit the previous days' material and practise weak spots."}
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *RoadmapService) Get(ctx context.Context, userID, careerID uint) (*model.Roadmap, error) {
	roadmap, err := s.RoadmapRepo.FindWithTasks(ctx, userID, careerID)
	if err != nil {
		return nil, err
	}
	if roadmap == nil {
		return nil, util.ErrRoadmapNotFound
	}
	return roadmap, nil
}

// CompleteTask marks a task done, recomputes roadmap progress and awards XP.
func (s *RoadmapService) CompleteTask(ctx context.Context, userID, taskID uint) (*TaskCompletion, error) {
	task, err := s.TaskRepo.FindByIDAndUser(ctx, taskID, userID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, util.ErrTaskNotFound
	}
	if task.Completed() {
		return nil, util.ErrTaskAlreadyCompleted
	}

	now := s.Now()
	ok, err := s.TaskRepo.MarkCompleted(ctx, task.ID, userID, now)
	if err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}
	if !ok {
		return nil, util.ErrTaskAlreadyCompleted
	}
	task.CompletedAt = &now

	roadmap, err := s.RoadmapRepo.FindByID(ctx, task.RoadmapID)
	if err != nil {
		return nil, err
	}
	if roadmap == nil {
		return nil, util.ErrRoadmapNotFound
	}

	total, err := s.TaskRepo.CountTasks(ctx, userID, repository.TaskFilter{RoadmapID: roadmap.ID})
	if err != nil {
		return nil, err
	}
	done, err := s.TaskRepo.CountTasks(ctx, userID, repository.TaskFilter{RoadmapID: roadmap.ID, CompletedOnly: true})
	if err != nil {
		return nil, err
	}
	roadmap.ProgressPercentage = roundTo2(Percent(float64(done), float64(total)))
	if err := s.RoadmapRepo.Save(ctx, roadmap); err != nil {
		return nil, fmt.Errorf("save roadmap: %w", err)
	}

	xp := task.XPReward
	if xp <= 0 {
		xp = util.TaskXPReward
	}
	_, badges, err := s.Gamification.AwardXP(ctx, userID, xp)
	if err != nil {
		return nil, err
	}

	result := &TaskCompletion{
		Task:               task,
		ProgressPercentage: roadmap.ProgressPercentage,
		XPAwarded:          xp,
		NewBadges:          badges,
	}

	if roadmap.ProgressPercentage >= 100 {
		b, err := s.Gamification.AwardBadge(ctx, userID, model.BadgeRoadmapComplete)
		if err != nil {
			return nil, err
		}
		if b != nil {
			result.NewBadges = append(result.NewBadges, *b)
		}
	}
	return result, nil
}
