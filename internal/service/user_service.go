package service

import (
	"carevo_backend/internal/model"
	"carevo_backend/internal/util"
	"context"
	"fmt"
	"strings"
)

// SkillRating is one self-assessed skill submitted during onboarding.
// swagger:model SkillRating
type SkillRating struct {
	Name       string `json:"name" binding:"required,max=100"`
	SelfRating int    `json:"selfRating" binding:"rating"`
}

// OnboardingInput 新用户引导数据
// swagger:model OnboardingInput
type OnboardingInput struct {
	Education       string        `json:"education" binding:"max=255"`
	CareerInterests []string      `json:"careerInterests" binding:"max=10,dive,max=100"`
	CareerID        uint          `json:"careerId" binding:"required"`
	Skills          []SkillRating `json:"skills" binding:"required,min=1,max=30,dive"`
}

// UserService handles onboarding and the user's skill records.
type UserService struct {
	UserRepo   UserStore
	SkillRepo  SkillStore
	CareerRepo CareerStore
}

func NewUserService(userRepo UserStore, skillRepo SkillStore, careerRepo CareerStore) *UserService {
	return &UserService{
		UserRepo:   userRepo,
		SkillRepo:  skillRepo,
		CareerRepo: careerRepo,
	}
}

// Onboard stores the profile answers and upserts the skill record for the
// chosen career. Validated scores already earned through quizzes are kept.
func (s *UserService) Onboard(ctx context.Context, userID uint, in OnboardingInput) (*model.SkillRecord, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, util.ErrUserNotFound
	}

	career, err := s.CareerRepo.FindByID(ctx, in.CareerID)
	if err != nil {
		return nil, err
	}
	if career == nil {
		return nil, util.ErrCareerNotFound
	}

	interests := make([]string, 0, len(in.CareerInterests)+1)
	for _, i := range in.CareerInterests {
		if i = strings.TrimSpace(i); i != "" {
			interests = append(interests, i)
		}
	}
	if len(interests) == 0 {
		interests = append(interests, career.Name)
	}

	user.Education = strings.TrimSpace(in.Education)
	user.CareerInterests = interests
	user.Onboarded = true
	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	record, err := s.SkillRepo.FindByUserAndCareer(ctx, userID, career.ID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = &model.SkillRecord{UserID: userID, CareerID: career.ID}
	}

	record.Skills = MergeSkillRatings(record.Skills, in.Skills)
	if err := s.SkillRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("save skills: %w", err)
	}
	return record, nil
}

// MergeSkillRatings replaces the rated skill list. Existing entries with the
// same name keep their validated score and quiz level.
func MergeSkillRatings(existing []model.SkillEntry, ratings []SkillRating) []model.SkillEntry {
	prev := make(map[string]model.SkillEntry, len(existing))
	for _, e := range existing {
		prev[strings.ToLower(e.Name)] = e
	}

	out := make([]model.SkillEntry, 0, len(ratings))
	seen := make(map[string]bool, len(ratings))
	for _, r := range ratings {
		name := strings.TrimSpace(r.Name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true

		entry := model.SkillEntry{Name: name, SelfRating: util.IntPtr(r.SelfRating), HighestQuizLevelCleared: model.LevelNone}
		if old, ok := prev[key]; ok {
			entry.ValidatedScore = old.ValidatedScore
			if old.HighestQuizLevelCleared != "" {
				entry.HighestQuizLevelCleared = old.HighestQuizLevelCleared
			}
		}
		entry.FinalScore = FinalScore(entry.SelfRating, entry.ValidatedScore)
		out = append(out, entry)
	}
	return out
}

// FinalScore blends self rating and validated score 30/70. Without a validated
// score there is no final score.
func FinalScore(selfRating, validated *int) *int {
	if validated == nil {
		return nil
	}
	self := FirstDefined(selfRating)
	return util.IntPtr(roundInt(0.3*float64(self) + 0.7*float64(*validated)))
}
