package model

import "time"

// Roadmap is a day-by-day learning plan toward a career.
type Roadmap struct {
	BaseModel
	UserID             uint          `gorm:"index:idx_roadmap_user_career;not null" json:"userId"`
	CareerID           uint          `gorm:"index:idx_roadmap_user_career;not null" json:"careerId"`
	CareerName         string        `gorm:"size:100" json:"careerName"`
	TotalDays          int           `gorm:"default:0" json:"totalDays"`
	ProgressPercentage float64       `gorm:"default:0" json:"progressPercentage"`
	Tasks              []RoadmapTask `gorm:"foreignKey:RoadmapID" json:"tasks,omitempty"`
}

func (Roadmap) TableName() string {
	return "roadmaps"
}

// RoadmapTask is one day's task. Completed iff CompletedAt is set.
type RoadmapTask struct {
	BaseModel
	UserID      uint       `gorm:"index;not null" json:"userId"`
	RoadmapID   uint       `gorm:"index;not null" json:"roadmapId"`
	Day         int        `gorm:"not null" json:"day"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	XPReward    int        `gorm:"default:15" json:"xpReward"`
	CompletedAt *time.Time `gorm:"index" json:"completedAt"`
}

func (RoadmapTask) TableName() string {
	return "roadmap_tasks"
}

func (t *RoadmapTask) Completed() bool {
	return t.CompletedAt != nil
}
