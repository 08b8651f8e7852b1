package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AttemptInProgress = "in_progress"
	AttemptSubmitted  = "submitted"
)

// Attempt is one student's run through an assessment. At most one in_progress
// row may exist per (assessment, student); the partial unique index
// idx_attempts_one_in_progress enforces that at the store level.
type Attempt struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;not null" json:"id"`
	AssessmentID uuid.UUID `gorm:"column:assessment_id;type:uuid;not null;index" json:"assessment_id"`
	StudentID  uuid.UUID  `gorm:"column:student_id;type:uuid;not null;index" json:"student_id"`
	StartTime  time.Time  `gorm:"column:start_time;not null" json:"start_time"`
	EndTime    *time.Time `gorm:"column:end_time" json:"end_time"`
	TotalScore int        `gorm:"column:total_score;type:int;not null;default:0" json:"total_score"`
	Percentage float64    `gorm:"column:percentage;type:numeric;not null;default:0" json:"percentage"`
	Status     string     `gorm:"column:status;type:text;not null;default:'in_progress'" json:"status"`
	TimeTaken  *int64     `gorm:"column:time_taken;type:bigint" json:"time_taken"`
	CreatedAt  time.Time  `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Answers []Answer `gorm:"foreignKey:AttemptID;references:ID" json:"answers"`
}

func (Attempt) TableName() string {
	return "attempts"
}

// Answer is one recorded selection inside an attempt. The serial id keeps
// first-insertion order; (attempt_id, question_id) is unique so re-answering
// a question replaces the row instead of appending.
type Answer struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	AttemptID      uuid.UUID `gorm:"column:attempt_id;type:uuid;not null;uniqueIndex:idx_answers_attempt_question" json:"attempt_id"`
	QuestionID     uuid.UUID `gorm:"column:question_id;type:uuid;not null;uniqueIndex:idx_answers_attempt_question" json:"question_id"`
	SelectedAnswer string    `gorm:"column:selected_answer;type:text;not null" json:"selected_answer"`
	IsCorrect      bool      `gorm:"column:is_correct;type:boolean;not null" json:"is_correct"`
	MarksObtained  int       `gorm:"column:marks_obtained;type:int;not null" json:"marks_obtained"`
}

func (Answer) TableName() string {
	return "answers"
}
