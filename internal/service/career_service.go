package service

import (
	"carevo_backend/internal/model"
	"carevo_backend/internal/util"
	"context"
	"strings"
)

// CareerInput 管理员创建职业
// swagger:model CareerInput
type CareerInput struct {
	Name           string   `json:"name" binding:"required,max=100"`
	Description    string   `json:"description"`
	SalaryMin      int      `json:"salaryMin" binding:"gte=0"`
	SalaryMax      int      `json:"salaryMax" binding:"gtefield=SalaryMin"`
	RequiredSkills []string `json:"requiredSkills" binding:"max=30,dive,max=100"`
}

type CareerService struct {
	CareerRepo CareerStore
}

func NewCareerService(careerRepo CareerStore) *CareerService {
	return &CareerService{CareerRepo: careerRepo}
}

func (s *CareerService) List(ctx context.Context) ([]model.Career, error) {
	return s.CareerRepo.List(ctx)
}

func (s *CareerService) Get(ctx context.Context, id uint) (*model.Career, error) {
	career, err := s.CareerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if career == nil {
		return nil, util.ErrCareerNotFound
	}
	return career, nil
}

func (s *CareerService) Create(ctx context.Context, in CareerInput) (*model.Career, error) {
	name := strings.TrimSpace(in.Name)
	existing, err := s.CareerRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrCareerExists
	}

	career := &model.Career{
		Name:               name,
		Description:        in.Description,
		AverageSalaryRange: model.SalaryRange{Min: in.SalaryMin, Max: in.SalaryMax},
		RequiredSkills:     in.RequiredSkills,
	}
	if err := s.CareerRepo.Create(ctx, career); err != nil {
		return nil, err
	}
	return career, nil
}
