package model

import "gorm.io/datatypes"

type QuizStatus string

const (
	QuizGenerated QuizStatus = "generated"
	QuizSubmitted QuizStatus = "submitted"
)

type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
}

// Quiz 技能验证测验
type Quiz struct {
	BaseModel
	UserID    uint                              `gorm:"index;not null" json:"userId"`
	CareerID  uint                              `gorm:"index" json:"careerId"`
	SkillName string                            `gorm:"size:100;not null" json:"skillName"`
	Level     QuizLevel                         `gorm:"size:20;not null" json:"level"`
	Questions datatypes.JSONSlice[QuizQuestion] `json:"questions"`
	Answers   datatypes.JSONSlice[int]          `json:"answers"`
	Status    QuizStatus                        `gorm:"size:20;index;default:'generated'" json:"status"`
	Accuracy  float64                           `gorm:"default:0" json:"accuracy"`
	Passed    bool                              `gorm:"default:false" json:"passed"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
