package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OCRStatusPending    = "pending"
	OCRStatusProcessing = "processing"
	OCRStatusCompleted  = "completed"
	OCRStatusFailed     = "failed"
)

type File struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;primaryKey;not null" json:"id"`
	Filename           string    `gorm:"column:filename;type:text;not null" json:"filename"`
	OriginalName       string    `gorm:"column:original_name;type:text;not null" json:"original_name"`
	StoragePath        string    `gorm:"column:storage_path;type:text;not null" json:"storage_path"`
	PublicURL          string    `gorm:"column:public_url;type:text;not null" json:"public_url"`
	FileType           string    `gorm:"column:file_type;type:text;not null" json:"file_type"`
	FileSize           int64     `gorm:"column:file_size;type:bigint;not null" json:"file_size"`
	FolderID           uuid.UUID `gorm:"column:folder_id;type:uuid;not null" json:"folder_id"`
	UploadedBy         uuid.UUID `gorm:"column:uploaded_by;type:uuid;not null" json:"uploaded_by"`
	OCRProcessed       bool      `gorm:"column:ocr_processed;type:boolean;not null;default:false" json:"ocr_processed"`
	OCRStatus          string    `gorm:"column:ocr_status;type:text;not null;default:'pending'" json:"ocr_status"`
	OCRError           string    `gorm:"column:ocr_error;type:text;not null;default:''" json:"ocr_error,omitempty"`
	QuestionsExtracted int       `gorm:"column:questions_extracted;type:int;not null;default:0" json:"questions_extracted"`
	CreatedAt          time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (File) TableName() string {
	return "files"
}
