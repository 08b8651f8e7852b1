package models

import (
	"time"

	"github.com/google/uuid"
)

type Folder struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;not null" json:"id"`
	Name        string    `gorm:"column:name;type:text;not null" json:"name"`
	CompanyName string    `gorm:"column:company_name;type:text;not null" json:"company_name"`
	Description string    `gorm:"column:description;type:text;not null;default:''" json:"description"`
	CreatedBy   uuid.UUID `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	FileCount   int       `gorm:"column:file_count;type:int;not null;default:0" json:"file_count"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Folder) TableName() string {
	return "folders"
}
