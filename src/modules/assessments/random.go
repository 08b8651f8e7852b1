package assessments

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/zyntratech-upendra/placements/src/core/database"
	"github.com/zyntratech-upendra/placements/src/core/helpers"
	"github.com/zyntratech-upendra/placements/src/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultRandomDuration = 30 // minutes

type randomInput struct {
	FolderID          uuid.UUID `json:"folder_id" validate:"required"`
	NumberOfQuestions int       `json:"number_of_questions" validate:"required,min=1"`
	Duration          int       `json:"duration"`
}

// GenerateRandomAssessment samples numberOfQuestions questions from a
// folder's pool with a Fisher-Yates shuffle and creates a one-mark-per-
// question practice assessment from them.
func GenerateRandomAssessment(c *fiber.Ctx) error {
	db := database.DB
	userID := c.Locals("user_id").(string)

	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user ID format", err)
	}

	body := new(randomInput)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Missing or invalid fields", err)
	}

	var pool []models.Question
	if err := db.Where("folder_id = ?", body.FolderID).Find(&pool).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch questions", err)
	}

	if len(pool) < body.NumberOfQuestions {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Not enough questions available", nil)
	}

	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	selected := pool[:body.NumberOfQuestions]

	duration := body.Duration
	if duration <= 0 {
		duration = defaultRandomDuration
	}

	folderID := body.FolderID
	assessment := models.Assessment{
		ID:             uuid.New(),
		Title:          fmt.Sprintf("Random Practice Assessment - %d", time.Now().UnixMilli()),
		Description:    "Auto-generated random practice assessment",
		CompanyName:    "Practice",
		FolderID:       &folderID,
		Duration:       duration,
		TotalMarks:     body.NumberOfQuestions,
		IsActive:       true,
		IsPractice:     true,
		AssessmentType: models.AssessmentTypeRandom,
		CreatedBy:      creatorID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&assessment).Error; err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(selected))
		for _, q := range selected {
			ids = append(ids, q.ID)
		}
		return replaceQuestionSet(tx, assessment.ID, ids)
	})
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to create assessment", err)
	}

	assessment.Questions = selected
	return helpers.HandleSuccess(c, fiber.StatusCreated, "Random assessment generated successfully", assessment)
}
