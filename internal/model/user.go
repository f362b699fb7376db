package model

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name            string                      `gorm:"size:100;not null" json:"name"`
	Email           string                      `gorm:"size:100;unique;not null" json:"email"`
	Password        string                      `gorm:"size:100;not null" json:"-"`
	Role            UserRole                    `gorm:"size:20;default:'student'" json:"role"`
	Education       string                      `gorm:"size:255" json:"education"`
	CareerInterests datatypes.JSONSlice[string] `json:"careerInterests"`
	Onboarded       bool                        `gorm:"default:false" json:"onboarded"`
	LastSeen        time.Time                   `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// PrimaryInterest 返回第一个职业兴趣，没有时返回空串
func (u *User) PrimaryInterest() string {
	if u == nil || len(u.CareerInterests) == 0 {
		return ""
	}
	return u.CareerInterests[0]
}
