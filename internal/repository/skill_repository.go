package repository

import (
	"carevo_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type SkillRepository struct {
	DB *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: db}
}

// FindByUser 返回用户所有职业下的技能记录
func (r *SkillRepository) FindByUser(ctx context.Context, userID uint) ([]model.SkillRecord, error) {
	var records []model.SkillRecord
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&records).Error
	return records, err
}

func (r *SkillRepository) FindByUserAndCareer(ctx context.Context, userID, careerID uint) (*model.SkillRecord, error) {
	var record model.SkillRecord
	err := r.DB.WithContext(ctx).Where("user_id = ? AND career_id = ?", userID, careerID).First(&record).Error
	return notFoundAsNil(&record, err)
}

func (r *SkillRepository) Save(ctx context.Context, record *model.SkillRecord) error {
	return r.DB.WithContext(ctx).Save(record).Error
}
