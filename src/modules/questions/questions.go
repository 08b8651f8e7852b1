package questions

import (
	"errors"

	"github.com/zyntratech-upendra/placements/src/core/database"
	"github.com/zyntratech-upendra/placements/src/core/helpers"
	"github.com/zyntratech-upendra/placements/src/core/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetQuestionsByFolder lists the extracted question pool of a folder, used by
// the assessment builder UI.
func GetQuestionsByFolder(c *fiber.Ctx) error {
	db := database.DB

	var questions []models.Question
	if err := db.Where("folder_id = ?", c.Params("folderId")).Order("created_at ASC").Find(&questions).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch questions", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Questions fetched successfully", fiber.Map{
		"count":     len(questions),
		"questions": questions,
	})
}

func GetQuestionByID(c *fiber.Ctx) error {
	db := database.DB

	question := new(models.Question)
	if err := db.Where("id = ?", c.Params("id")).First(question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Question not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch question", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Question fetched successfully", question)
}
