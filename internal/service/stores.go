package service

import (
	"carevo_backend/internal/model"
	"carevo_backend/internal/repository"
	"context"
	"time"
)

// Clock returns the current instant. Business dates come from a Clock so tests can pin them.
type Clock func() time.Time

// Store interfaces are satisfied by the gorm repositories. Lookups of a
// single row return (nil, nil) when it does not exist.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type SkillStore interface {
	FindByUser(ctx context.Context, userID uint) ([]model.SkillRecord, error)
	FindByUserAndCareer(ctx context.Context, userID, careerID uint) (*model.SkillRecord, error)
	Save(ctx context.Context, record *model.SkillRecord) error
}

type GamificationStore interface {
	FindByUser(ctx context.Context, userID uint) (*model.Gamification, error)
	// Update runs fn on the user's record atomically, creating it if missing.
	Update(ctx context.Context, userID uint, fn func(g *model.Gamification) error) (*model.Gamification, error)
	TopByXP(ctx context.Context, limit int) ([]repository.LeaderboardRow, error)
}

type BadgeStore interface {
	FindByUser(ctx context.Context, userID uint) ([]model.Badge, error)
	Create(ctx context.Context, badge *model.Badge) (bool, error)
}

type RoadmapStore interface {
	FindFirstByUser(ctx context.Context, userID, careerID uint) (*model.Roadmap, error)
	FindWithTasks(ctx context.Context, userID, careerID uint) (*model.Roadmap, error)
	FindByID(ctx context.Context, id uint) (*model.Roadmap, error)
	Replace(ctx context.Context, roadmap *model.Roadmap) error
	Save(ctx context.Context, roadmap *model.Roadmap) error
}

type TaskStore interface {
	CountTasks(ctx context.Context, userID uint, filter repository.TaskFilter) (int64, error)
	ListTasks(ctx context.Context, userID uint, filter repository.TaskFilter) ([]model.RoadmapTask, error)
	FindByIDAndUser(ctx context.Context, id, userID uint) (*model.RoadmapTask, error)
	MarkCompleted(ctx context.Context, id, userID uint, at time.Time) (bool, error)
}

type QuizStore interface {
	Create(ctx context.Context, quiz *model.Quiz) error
	SaveSubmission(ctx context.Context, quiz *model.Quiz) (bool, error)
	FindByIDAndUser(ctx context.Context, id, userID uint) (*model.Quiz, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Quiz, error)
	ListSubmitted(ctx context.Context, userID uint, filter repository.QuizFilter) ([]model.Quiz, error)
}

type CareerStore interface {
	List(ctx context.Context) ([]model.Career, error)
	FindByID(ctx context.Context, id uint) (*model.Career, error)
	FindByName(ctx context.Context, name string) (*model.Career, error)
	Create(ctx context.Context, career *model.Career) error
}
