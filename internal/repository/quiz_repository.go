package repository

import (
	"carevo_backend/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type QuizFilter struct {
	Since      *time.Time
	PassedOnly bool
}

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(ctx context.Context, quiz *model.Quiz) error {
	return r.DB.WithContext(ctx).Create(quiz).Error
}

// SaveSubmission stores the graded answers if the quiz is still in the
// generated state. ok is false when another submission got there first.
func (r *QuizRepository) SaveSubmission(ctx context.Context, quiz *model.Quiz) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&model.Quiz{}).
		Where("id = ? AND user_id = ? AND status = ?", quiz.ID, quiz.UserID, model.QuizGenerated).
		Updates(map[string]interface{}{
			"answers":  quiz.Answers,
			"accuracy": quiz.Accuracy,
			"passed":   quiz.Passed,
			"status":   model.QuizSubmitted,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *QuizRepository) FindByIDAndUser(ctx context.Context, id, userID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&quiz).Error
	return notFoundAsNil(&quiz, err)
}

func (r *QuizRepository) ListByUser(ctx context.Context, userID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&quizzes).Error
	return quizzes, err
}

// ListSubmitted returns only quizzes with status submitted.
func (r *QuizRepository) ListSubmitted(ctx context.Context, userID uint, filter QuizFilter) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	q := r.DB.WithContext(ctx).Where("user_id = ? AND status = ?", userID, model.QuizSubmitted)
	if filter.Since != nil {
		q = q.Where("updated_at >= ?", *filter.Since)
	}
	if filter.PassedOnly {
		q = q.Where("passed = ?", true)
	}
	err := q.Order("updated_at ASC").Find(&quizzes).Error
	return quizzes, err
}
