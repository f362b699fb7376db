package service

import (
	"carevo_backend/internal/model"
	"carevo_backend/internal/repository"
	"carevo_backend/internal/util"
	"carevo_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	XPPerLevel      = 200
	CheckInBaseXP   = 10
	CheckInStreakXP = 10 // streak bonus cap
	LeaderboardMax  = 50
)

type badgeInfo struct {
	Name string
	Icon string
}

var badgeCatalog = map[model.BadgeCode]badgeInfo{
	model.BadgeFirstCheckIn:    {"First Check-in", "calendar-check"},
	model.BadgeStreak7:         {"7-Day Streak", "flame"},
	model.BadgeStreak30:        {"30-Day Streak", "fire"},
	model.BadgeXP1000:          {"1,000 XP", "star"},
	model.BadgeXP10000:         {"10,000 XP", "trophy"},
	model.BadgeQuizFirstPass:   {"Skill Validated", "check-circle"},
	model.BadgeRoadmapComplete: {"Roadmap Finished", "flag"},
}

// CheckInResult 签到结果
type CheckInResult struct {
	Gamification *model.Gamification `json:"gamification"`
	XPAwarded    int                 `json:"xpAwarded"`
	NewBadges    []model.Badge       `json:"newBadges"`
}

// GamificationProfile 用户成长信息
type GamificationProfile struct {
	Gamification *model.Gamification `json:"gamification"`
	Badges       []model.Badge       `json:"badges"`
	Level        int                 `json:"level"`
	NextLevelXP  int                 `json:"nextLevelXP"`
}

type GamificationService struct {
	GamificationRepo GamificationStore
	BadgeRepo        BadgeStore
	Now              Clock
}

func NewGamificationService(gamificationRepo GamificationStore, badgeRepo BadgeStore, now Clock) *GamificationService {
	if now == nil {
		now = time.Now
	}
	return &GamificationService{
		GamificationRepo: gamificationRepo,
		BadgeRepo:        badgeRepo,
		Now:              now,
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func (s *GamificationService) load(ctx context.Context, userID uint) (*model.Gamification, error) {
	g, err := s.GamificationRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		g = &model.Gamification{UserID: userID}
	}
	return g, nil
}

func addXP(g *model.Gamification, amount int, now time.Time) {
	if g.DailyXPDate == nil || !sameDay(now, *g.DailyXPDate) {
		g.DailyXP = 0
	}
	g.DailyXP += amount
	g.XP += amount
	g.DailyXPDate = &now
}

// CheckIn records today's check-in. A second check-in on the same calendar day
// fails with util.ErrAlreadyCheckedIn.
func (s *GamificationService) CheckIn(ctx context.Context, userID uint) (*CheckInResult, error) {
	now := s.Now()
	xp := 0
	g, err := s.GamificationRepo.Update(ctx, userID, func(g *model.Gamification) error {
		if g.LastCheckIn != nil {
			if sameDay(now, *g.LastCheckIn) {
				return util.ErrAlreadyCheckedIn
			}
			if sameDay(now.AddDate(0, 0, -1), *g.LastCheckIn) {
				g.Streak++
			} else {
				g.Streak = 1
			}
		} else {
			g.Streak = 1
		}

		g.TotalCheckIns++
		if g.Streak > g.LongestStreak {
			g.LongestStreak = g.Streak
		}
		g.LastCheckIn = &now

		bonus := g.Streak
		if bonus > CheckInStreakXP {
			bonus = CheckInStreakXP
		}
		xp = CheckInBaseXP + bonus
		addXP(g, xp, now)
		return nil
	})
	if err != nil {
		if errors.Is(err, util.ErrAlreadyCheckedIn) {
			return nil, err
		}
		return nil, fmt.Errorf("save check-in: %w", err)
	}

	badges, err := s.evaluateBadges(ctx, g)
	if err != nil {
		return nil, err
	}
	return &CheckInResult{Gamification: g, XPAwarded: xp, NewBadges: badges}, nil
}

// AwardXP adds XP and returns any milestone badges it unlocked.
func (s *GamificationService) AwardXP(ctx context.Context, userID uint, amount int) (*model.Gamification, []model.Badge, error) {
	now := s.Now()
	g, err := s.GamificationRepo.Update(ctx, userID, func(g *model.Gamification) error {
		addXP(g, amount, now)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("save xp: %w", err)
	}
	badges, err := s.evaluateBadges(ctx, g)
	if err != nil {
		return nil, nil, err
	}
	return g, badges, nil
}

// AwardBadge grants code once. It returns nil when the user already has it.
func (s *GamificationService) AwardBadge(ctx context.Context, userID uint, code model.BadgeCode) (*model.Badge, error) {
	info, ok := badgeCatalog[code]
	if !ok {
		return nil, fmt.Errorf("unknown badge %q", code)
	}
	badge := &model.Badge{
		UserID:   userID,
		Code:     code,
		Name:     info.Name,
		Icon:     info.Icon,
		EarnedAt: s.Now(),
	}
	created, err := s.BadgeRepo.Create(ctx, badge)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, nil
	}
	logger.Log.Info("badge awarded", zap.Uint("userID", userID), zap.String("badge", string(code)))
	return badge, nil
}

func (s *GamificationService) evaluateBadges(ctx context.Context, g *model.Gamification) ([]model.Badge, error) {
	var codes []model.BadgeCode
	if g.TotalCheckIns >= 1 {
		codes = append(codes, model.BadgeFirstCheckIn)
	}
	if g.Streak >= 7 {
		codes = append(codes, model.BadgeStreak7)
	}
	if g.Streak >= 30 {
		codes = append(codes, model.BadgeStreak30)
	}
	if g.XP >= 1000 {
		codes = append(codes, model.BadgeXP1000)
	}
	if g.XP >= 10000 {
		codes = append(codes, model.BadgeXP10000)
	}

	earned := []model.Badge{}
	for _, code := range codes {
		b, err := s.AwardBadge(ctx, g.UserID, code)
		if err != nil {
			return nil, err
		}
		if b != nil {
			earned = append(earned, *b)
		}
	}
	return earned, nil
}

func (s *GamificationService) Profile(ctx context.Context, userID uint) (*GamificationProfile, error) {
	g, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	badges, err := s.BadgeRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if badges == nil {
		badges = []model.Badge{}
	}
	level := g.XP / XPPerLevel
	return &GamificationProfile{
		Gamification: g,
		Badges:       badges,
		Level:        level,
		NextLevelXP:  (level + 1) * XPPerLevel,
	}, nil
}

func (s *GamificationService) Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardRow, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > LeaderboardMax {
		limit = LeaderboardMax
	}
	rows, err := s.GamificationRepo.TopByXP(ctx, limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.LeaderboardRow{}
	}
	return rows, nil
}
