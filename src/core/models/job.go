package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusActive = "active"
	JobStatusClosed = "closed"
	JobStatusDraft  = "draft"
)

type JobEligibility struct {
	Departments []string `json:"departments"`
	Batches     []string `json:"batches"`
	MinCGPA     float64  `json:"min_cgpa"`
}

type Job struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;not null" json:"id"`
	Title       string          `gorm:"column:title;type:text;not null" json:"title"`
	CompanyName string          `gorm:"column:company_name;type:text;not null" json:"company_name"`
	Description string          `gorm:"column:description;type:text;not null" json:"description"`
	Location    string          `gorm:"column:location;type:text;not null" json:"location"`
	Salary      string          `gorm:"column:salary;type:text" json:"salary"`
	JobType     string          `gorm:"column:job_type;type:text;not null" json:"job_type"`
	Eligibility json.RawMessage `gorm:"column:eligibility;type:jsonb" json:"eligibility"`
	Deadline    time.Time       `gorm:"column:deadline;not null" json:"deadline"`
	Status      string          `gorm:"column:status;type:text;not null;default:'active'" json:"status"`
	CreatedBy   uuid.UUID       `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time       `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}
