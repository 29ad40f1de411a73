package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name           string    `gorm:"size:100;not null" json:"name"`
	Email          string    `gorm:"size:100;unique;not null" json:"email"`
	Password       string    `gorm:"size:100;not null" json:"-"`
	Role           UserRole  `gorm:"size:20;default:'student'" json:"role"`
	Points         float64   `gorm:"default:0" json:"points"` // 测验积分，驱动选题难度
	Language       string    `gorm:"size:10;default:'es'" json:"language"`
	LastConnection time.Time `json:"lastConnection"`
	LastSeen       time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
