package repository

import (
	"carevo_backend/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// TaskFilter narrows task queries; zero values mean no restriction.
type TaskFilter struct {
	RoadmapID     uint
	CompletedOnly bool
	Since         *time.Time
}

func (f TaskFilter) apply(q *gorm.DB) *gorm.DB {
	if f.RoadmapID > 0 {
		q = q.Where("roadmap_id = ?", f.RoadmapID)
	}
	if f.CompletedOnly {
		q = q.Where("completed_at IS NOT NULL")
	}
	if f.Since != nil {
		q = q.Where("completed_at >= ?", *f.Since)
	}
	return q
}

type TaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) CountTasks(ctx context.Context, userID uint, filter TaskFilter) (int64, error) {
	var count int64
	q := r.DB.WithContext(ctx).Model(&model.RoadmapTask{}).Where("user_id = ?", userID)
	err := filter.apply(q).Count(&count).Error
	return count, err
}

func (r *TaskRepository) ListTasks(ctx context.Context, userID uint, filter TaskFilter) ([]model.RoadmapTask, error) {
	var tasks []model.RoadmapTask
	q := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	err := filter.apply(q).Order("day ASC, id ASC").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) FindByIDAndUser(ctx context.Context, id, userID uint) (*model.RoadmapTask, error) {
	var task model.RoadmapTask
	err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&task).Error
	return notFoundAsNil(&task, err)
}

// MarkCompleted sets completed_at only while it is still NULL. ok is false when
// the task was already completed, including by a concurrent request.
func (r *TaskRepository) MarkCompleted(ctx context.Context, id, userID uint, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&model.RoadmapTask{}).
		Where("id = ? AND user_id = ? AND completed_at IS NULL", id, userID).
		Update("completed_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
