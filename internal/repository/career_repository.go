package repository

import (
	"carevo_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type CareerRepository struct {
	DB *gorm.DB
}

func NewCareerRepository(db *gorm.DB) *CareerRepository {
	return &CareerRepository{DB: db}
}

func (r *CareerRepository) List(ctx context.Context) ([]model.Career, error) {
	var careers []model.Career
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&careers).Error
	return careers, err
}

func (r *CareerRepository) FindByID(ctx context.Context, id uint) (*model.Career, error) {
	var career model.Career
	err := r.DB.WithContext(ctx).First(&career, id).Error
	return notFoundAsNil(&career, err)
}

// FindByName matches case-insensitively.
func (r *CareerRepository) FindByName(ctx context.Context, name string) (*model.Career, error) {
	var career model.Career
	err := r.DB.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&career).Error
	return notFoundAsNil(&career, err)
}

func (r *CareerRepository) Create(ctx context.Context, career *model.Career) error {
	return r.DB.WithContext(ctx).Create(career).Error
}
