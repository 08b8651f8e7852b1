package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const (
	QuestionTypeMCQ         = "mcq"
	QuestionTypeCoding      = "coding"
	QuestionTypeDescriptive = "descriptive"
)

// Question rows are created in bulk by OCR ingestion and only removed by
// folder/file cascade deletes.
type Question struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;not null" json:"id"`
	FileID        uuid.UUID       `gorm:"column:file_id;type:uuid;not null" json:"file_id"`
	FolderID      uuid.UUID       `gorm:"column:folder_id;type:uuid;not null;index" json:"folder_id"`
	QuestionText  string          `gorm:"column:question_text;type:text;not null" json:"question_text"`
	Options       json.RawMessage `gorm:"column:options;type:jsonb;not null" json:"options"`
	CorrectAnswer *string         `gorm:"column:correct_answer;type:text" json:"correct_answer"`
	Difficulty    string          `gorm:"column:difficulty;type:text;not null;default:'medium'" json:"difficulty"`
	Topic         string          `gorm:"column:topic;type:text;not null;default:'General'" json:"topic"`
	QuestionType  string          `gorm:"column:question_type;type:text;not null;default:'mcq'" json:"question_type"`
	CreatedAt     time.Time       `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Question) TableName() string {
	return "questions"
}

// OptionList decodes the jsonb options column.
func (q Question) OptionList() []string {
	var opts []string
	if len(q.Options) > 0 {
		_ = json.Unmarshal(q.Options, &opts)
	}
	return opts
}
