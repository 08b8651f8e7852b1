package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	InterviewCreated    = "created"
	InterviewInProgress = "in_progress"
	InterviewCompleted  = "completed"
	InterviewAnalyzed   = "analyzed"
)

// InterviewSession is one AI mock-interview run: the ML service generates the
// questions from the job description and resume, the student answers over
// audio, and analysis fills in scores afterwards.
type InterviewSession struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;not null" json:"id"`
	StudentID       uuid.UUID       `gorm:"column:student_id;type:uuid;not null;index" json:"student_id"`
	JobDescription  string          `gorm:"column:job_description;type:text;not null" json:"job_description"`
	ResumePath      string          `gorm:"column:resume_path;type:text;not null;default:''" json:"resume_path"`
	ResumeURL       string          `gorm:"column:resume_url;type:text;not null;default:''" json:"resume_url"`
	ResumeText      string          `gorm:"column:resume_text;type:text;not null;default:''" json:"resume_text,omitempty"`
	DurationSeconds int             `gorm:"column:duration_seconds;type:int;not null" json:"duration_seconds"`
	Questions       json.RawMessage `gorm:"column:questions;type:jsonb" json:"questions"`
	Status          string          `gorm:"column:status;type:text;not null;default:'created'" json:"status"`
	CreatedAt       time.Time       `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}

type InterviewAnswer struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;not null" json:"id"`
	SessionID  uuid.UUID `gorm:"column:session_id;type:uuid;not null;index" json:"session_id"`
	QuestionID string    `gorm:"column:question_id;type:text;not null" json:"question_id"`
	AudioPath  string    `gorm:"column:audio_path;type:text;not null" json:"audio_path"`
	AudioURL   string    `gorm:"column:audio_url;type:text;not null" json:"audio_url"`
	Transcript string    `gorm:"column:transcript;type:text;not null;default:''" json:"transcript"`
	Score      *float64  `gorm:"column:score;type:numeric" json:"score"`
	Feedback   string    `gorm:"column:feedback;type:text;not null;default:''" json:"feedback"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (InterviewAnswer) TableName() string {
	return "interview_answers"
}
