package files

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/zyntratech-upendra/placements/src/core/database"
	"github.com/zyntratech-upendra/placements/src/core/helpers"
	"github.com/zyntratech-upendra/placements/src/core/mlservice"
	"github.com/zyntratech-upendra/placements/src/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProcessOCR streams a stored document to the ML service and bulk-inserts the
// questions it extracts. The file's ocr_status tracks the pipeline:
// pending -> processing -> completed|failed.
func ProcessOCR(c *fiber.Ctx) error {
	db := database.DB

	file := new(models.File)
	if err := db.Where("id = ?", c.Params("id")).First(file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "File not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch file", err)
	}

	if err := db.Model(file).Update("ocr_status", models.OCRStatusProcessing).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to update OCR status", err)
	}

	resp, err := http.Get(file.PublicURL)
	if err != nil {
		return failOCR(c, db, file, fmt.Errorf("failed to fetch stored object: %w", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return failOCR(c, db, file, fmt.Errorf("stored object fetch returned %s", resp.Status))
	}

	parsed, totalExtracted, totalValid, err := mlservice.ParseDocument(file.OriginalName, resp.Body)
	if err != nil {
		return failOCR(c, db, file, err)
	}

	questions := make([]models.Question, 0, len(parsed))
	for _, q := range parsed {
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return failOCR(c, db, file, err)
		}
		var correct *string
		if q.Answer != "" {
			answer := q.Answer
			correct = &answer
		}
		topic := q.Section
		if topic == "" {
			topic = "General"
		}
		questions = append(questions, models.Question{
			ID:            uuid.New(),
			FileID:        file.ID,
			FolderID:      file.FolderID,
			QuestionText:  q.Text,
			Options:       opts,
			CorrectAnswer: correct,
			Difficulty:    models.DifficultyMedium,
			Topic:         topic,
			QuestionType:  models.QuestionTypeMCQ,
		})
	}

	if len(questions) > 0 {
		if err := db.Create(&questions).Error; err != nil {
			return failOCR(c, db, file, err)
		}
	}

	updates := map[string]interface{}{
		"ocr_processed":       true,
		"ocr_status":          models.OCRStatusCompleted,
		"ocr_error":           "",
		"questions_extracted": len(questions),
	}
	if err := db.Model(file).Updates(updates).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to update OCR status", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "OCR processing completed", fiber.Map{
		"questions_count": len(questions),
		"total_extracted": totalExtracted,
		"total_valid":     totalValid,
	})
}

func failOCR(c *fiber.Ctx, db *gorm.DB, file *models.File, cause error) error {
	updates := map[string]interface{}{
		"ocr_status": models.OCRStatusFailed,
		"ocr_error":  cause.Error(),
	}
	if err := db.Model(file).Updates(updates).Error; err != nil {
		fmt.Println("Failed to record OCR failure:", err)
	}
	return helpers.HandleError(c, fiber.StatusInternalServerError, "OCR service error", cause)
}
