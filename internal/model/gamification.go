package model

import "time"

// Gamification is the per-user XP and streak counter. Singleton per user.
type Gamification struct {
	BaseModel
	UserID        uint       `gorm:"uniqueIndex;not null" json:"userId"`
	XP            int        `gorm:"default:0" json:"xp"`
	DailyXP       int        `gorm:"default:0" json:"dailyXP"`
	DailyXPDate   *time.Time `json:"-"`
	Streak        int        `gorm:"default:0" json:"streak"`
	LongestStreak int        `gorm:"default:0" json:"longestStreak"`
	TotalCheckIns int        `gorm:"default:0" json:"totalCheckIns"`
	LastCheckIn   *time.Time `json:"lastCheckIn"`
}

func (Gamification) TableName() string {
	return "gamifications"
}

type BadgeCode string

const (
	BadgeFirstCheckIn    BadgeCode = "first_checkin"
	BadgeStreak7         BadgeCode = "streak_7"
	BadgeStreak30        BadgeCode = "streak_30"
	BadgeXP1000          BadgeCode = "xp_1000"
	BadgeXP10000         BadgeCode = "xp_10000"
	BadgeQuizFirstPass   BadgeCode = "quiz_first_pass"
	BadgeRoadmapComplete BadgeCode = "roadmap_complete"
)

// Badge 用户获得的徽章，每种只发一次
type Badge struct {
	BaseModel
	UserID   uint      `gorm:"uniqueIndex:idx_badge_user_code;not null" json:"userId"`
	Code     BadgeCode `gorm:"uniqueIndex:idx_badge_user_code;size:50;not null" json:"code"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	Icon     string    `gorm:"size:255" json:"icon"`
	EarnedAt time.Time `json:"earnedAt"`
}

func (Badge) TableName() string {
	return "badges"
}
