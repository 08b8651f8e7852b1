package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AssessmentTypeScheduled = "scheduled"
	AssessmentTypePractice  = "practice"
	AssessmentTypeRandom    = "random"
)

type Assessment struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;not null" json:"id"`
	Title          string     `gorm:"column:title;type:text;not null" json:"title"`
	Description    string     `gorm:"column:description;type:text;not null;default:''" json:"description"`
	CompanyName    string     `gorm:"column:company_name;type:text;not null" json:"company_name"`
	FolderID       *uuid.UUID `gorm:"column:folder_id;type:uuid" json:"folder_id"`
	Duration       int        `gorm:"column:duration;type:int;not null" json:"duration"`
	TotalMarks     int        `gorm:"column:total_marks;type:int;not null" json:"total_marks"`
	ScheduledDate  *time.Time `gorm:"column:scheduled_date" json:"scheduled_date"`
	EndDate        *time.Time `gorm:"column:end_date" json:"end_date"`
	IsActive       bool       `gorm:"column:is_active;type:boolean;not null;default:true" json:"is_active"`
	IsPractice     bool       `gorm:"column:is_practice;type:boolean;not null;default:false" json:"is_practice"`
	AssessmentType string     `gorm:"column:assessment_type;type:text;not null;default:'practice'" json:"assessment_type"`
	CreatedBy      uuid.UUID  `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	CreatedAt      time.Time  `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Populated by the handlers, not by GORM relations.
	Questions       []Question  `gorm:"-" json:"questions,omitempty"`
	AllowedStudents []uuid.UUID `gorm:"-" json:"allowed_students,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// AssessmentQuestion keeps the ordered question set of an assessment.
type AssessmentQuestion struct {
	AssessmentID uuid.UUID `gorm:"column:assessment_id;type:uuid;primaryKey" json:"assessment_id"`
	QuestionID   uuid.UUID `gorm:"column:question_id;type:uuid;primaryKey" json:"question_id"`
	Position     int       `gorm:"column:position;type:int;not null" json:"position"`
}

func (AssessmentQuestion) TableName() string {
	return "assessment_questions"
}

// AssessmentStudent is the allowed-students membership for scheduled assessments.
type AssessmentStudent struct {
	AssessmentID uuid.UUID `gorm:"column:assessment_id;type:uuid;primaryKey" json:"assessment_id"`
	StudentID    uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`
}

func (AssessmentStudent) TableName() string {
	return "assessment_students"
}

// AssessmentSummary is the light projection attached to attempt listings.
type AssessmentSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	CompanyName string    `json:"company_name"`
	Duration    int       `json:"duration"`
	TotalMarks  int       `json:"total_marks"`
}

func (a Assessment) Summary() AssessmentSummary {
	return AssessmentSummary{
		ID:          a.ID,
		Title:       a.Title,
		CompanyName: a.CompanyName,
		Duration:    a.Duration,
		TotalMarks:  a.TotalMarks,
	}
}
