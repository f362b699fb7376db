package model

import "gorm.io/datatypes"

type SalaryRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Career is reference data, looked up by name from the overview.
type Career struct {
	BaseModel
	Name               string                      `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description        string                      `gorm:"type:text" json:"description"`
	AverageSalaryRange SalaryRange                 `gorm:"embedded;embeddedPrefix:salary_" json:"averageSalaryRange"`
	RequiredSkills     datatypes.JSONSlice[string] `json:"requiredSkills"`
}

func (Career) TableName() string {
	return "careers"
}
