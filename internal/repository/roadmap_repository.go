package repository

import (
	"carevo_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type RoadmapRepository struct {
	DB *gorm.DB
}

func NewRoadmapRepository(db *gorm.DB) *RoadmapRepository {
	return &RoadmapRepository{DB: db}
}

// FindFirstByUser returns the user's oldest roadmap, restricted to careerID
// when it is non-zero.
func (r *RoadmapRepository) FindFirstByUser(ctx context.Context, userID, careerID uint) (*model.Roadmap, error) {
	var roadmap model.Roadmap
	q := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	if careerID > 0 {
		q = q.Where("career_id = ?", careerID)
	}
	err := q.Order("id ASC").First(&roadmap).Error
	return notFoundAsNil(&roadmap, err)
}

func (r *RoadmapRepository) FindWithTasks(ctx context.Context, userID, careerID uint) (*model.Roadmap, error) {
	var roadmap model.Roadmap
	q := r.DB.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("day ASC") }).
		Where("user_id = ?", userID)
	if careerID > 0 {
		q = q.Where("career_id = ?", careerID)
	}
	err := q.Order("id ASC").First(&roadmap).Error
	return notFoundAsNil(&roadmap, err)
}

func (r *RoadmapRepository) FindByID(ctx context.Context, id uint) (*model.Roadmap, error) {
	var roadmap model.Roadmap
	err := r.DB.WithContext(ctx).First(&roadmap, id).Error
	return notFoundAsNil(&roadmap, err)
}

// Replace removes the user's previous roadmap for the same career and stores
// the new one with its tasks in a single transaction.
func (r *RoadmapRepository) Replace(ctx context.Context, roadmap *model.Roadmap) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var oldIDs []uint
		if err := tx.Model(&model.Roadmap{}).
			Where("user_id = ? AND career_id = ?", roadmap.UserID, roadmap.CareerID).
			Pluck("id", &oldIDs).Error; err != nil {
			return err
		}

		if len(oldIDs) > 0 {
			if err := tx.Where("roadmap_id IN ?", oldIDs).Delete(&model.RoadmapTask{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", oldIDs).Delete(&model.Roadmap{}).Error; err != nil {
				return err
			}
		}

		return tx.Create(roadmap).Error
	})
}

func (r *RoadmapRepository) Save(ctx context.Context, roadmap *model.Roadmap) error {
	return r.DB.WithContext(ctx).Omit("Tasks").Save(roadmap).Error
}
