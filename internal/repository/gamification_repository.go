package repository

import (
	"carevo_backend/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GamificationRepository struct {
	DB *gorm.DB
}

func NewGamificationRepository(db *gorm.DB) *GamificationRepository {
	return &GamificationRepository{DB: db}
}

func (r *GamificationRepository) FindByUser(ctx context.Context, userID uint) (*model.Gamification, error) {
	var g model.Gamification
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&g).Error
	return notFoundAsNil(&g, err)
}

// Update applies fn to the user's record under a row lock and saves it. The
// record is created on first use. An error from fn rolls back and is returned
// unchanged.
func (r *GamificationRepository) Update(ctx context.Context, userID uint, fn func(g *model.Gamification) error) (*model.Gamification, error) {
	var g model.Gamification
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 并发首次创建时只会插入一行
		seed := model.Gamification{UserID: userID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&g).Error; err != nil {
			return err
		}
		if err := fn(&g); err != nil {
			return err
		}
		return tx.Save(&g).Error
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

type LeaderboardRow struct {
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	XP     int    `json:"xp"`
	Streak int    `json:"streak"`
}

func (r *GamificationRepository) TopByXP(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := r.DB.WithContext(ctx).
		Table("gamifications").
		Select("gamifications.user_id, users.name, gamifications.xp, gamifications.streak").
		Joins("JOIN users ON users.id = gamifications.user_id").
		Where("gamifications.deleted_at IS NULL").
		Order("gamifications.xp DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) FindByUser(ctx context.Context, userID uint) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("earned_at ASC").Find(&badges).Error
	return badges, err
}

// Create inserts the badge unless the user already holds it; created reports
// whether a row was written.
func (r *BadgeRepository) Create(ctx context.Context, badge *model.Badge) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(badge)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
