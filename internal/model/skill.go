package model

import (
	"gorm.io/datatypes"
)

// QuizLevel is the difficulty tier of a validation quiz.
type QuizLevel string

const (
	LevelNone     QuizLevel = "none"
	LevelEasy     QuizLevel = "easy"
	LevelMedium   QuizLevel = "medium"
	LevelAdvanced QuizLevel = "advanced"
)

// Ordinal maps a level onto 0..3 so levels can be max-aggregated.
func (l QuizLevel) Ordinal() int {
	switch l {
	case LevelEasy:
		return 1
	case LevelMedium:
		return 2
	case LevelAdvanced:
		return 3
	default:
		return 0
	}
}

func (l QuizLevel) Valid() bool {
	return l == LevelEasy || l == LevelMedium || l == LevelAdvanced
}

// SkillEntry is one self-rated skill, optionally validated by quizzes.
type SkillEntry struct {
	Name                    string    `json:"name"`
	SelfRating              *int      `json:"selfRating"`
	ValidatedScore          *int      `json:"validatedScore"`
	FinalScore              *int      `json:"finalScore"`
	HighestQuizLevelCleared QuizLevel `json:"highestQuizLevelCleared"`
}

// SkillRecord holds a user's skills for one career. One per (user, career).
type SkillRecord struct {
	BaseModel
	UserID   uint                            `gorm:"uniqueIndex:idx_skill_user_career;not null" json:"userId"`
	CareerID uint                            `gorm:"uniqueIndex:idx_skill_user_career;not null" json:"careerId"`
	Skills   datatypes.JSONSlice[SkillEntry] `json:"skills"`
}

func (SkillRecord) TableName() string {
	return "skill_records"
}

// FindSkill returns the index of the named skill, or -1.
func (r *SkillRecord) FindSkill(name string) int {
	for i, s := range r.Skills {
		if s.Name == name {
			return i
		}
	}
	return -1
}
