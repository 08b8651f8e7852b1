package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin   = "admin"
	RoleMentor  = "mentor"
	RoleStudent = "student"
)

type User struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;not null" json:"id"`
	Name       string    `gorm:"column:name;type:text;not null" json:"name"`
	Email      string    `gorm:"column:email;type:text;unique;not null" json:"email"`
	Password   string    `gorm:"column:password;type:text;not null" json:"-"`
	Role       string    `gorm:"column:role;type:text;not null;default:'student'" json:"role"`
	RollNumber string    `gorm:"column:roll_number;type:text" json:"roll_number"`
	Department string    `gorm:"column:department;type:text" json:"department"`
	IsActive   bool      `gorm:"column:is_active;type:boolean;not null;default:true" json:"is_active"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary is the light projection attached to attempts and assessments.
type UserSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	RollNumber string    `json:"roll_number,omitempty"`
	Department string    `json:"department,omitempty"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		RollNumber: u.RollNumber,
		Department: u.Department,
	}
}
