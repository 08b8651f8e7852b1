package attempts

import (
	"errors"

	"github.com/zyntratech-upendra/placements/src/core/database"
	"github.com/zyntratech-upendra/placements/src/core/helpers"
	"github.com/zyntratech-upendra/placements/src/core/models"
	"github.com/zyntratech-upendra/placements/src/core/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type answerDetail struct {
	models.Answer
	Question *models.Question `json:"question,omitempty"`
}

// GetAttemptByID returns the full attempt: answers with their question
// bodies, an assessment projection and a student summary.
func GetAttemptByID(c *fiber.Ctx) error {
	db := database.DB

	userID, err := principalID(c)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user ID format", err)
	}
	role, _ := c.Locals("user_role").(string)

	attempt := new(models.Attempt)
	if err := db.Where("id = ?", c.Params("id")).First(attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Attempt not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch attempt", err)
	}

	if !policy.CanViewAttempt(*attempt, userID, role) {
		return helpers.HandleError(c, fiber.StatusForbidden, "Not authorized", nil)
	}

	var answers []models.Answer
	if err := db.Where("attempt_id = ?", attempt.ID).Order("id ASC").Find(&answers).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch attempt answers", err)
	}

	questionIDs := make([]uuid.UUID, 0, len(answers))
	for _, a := range answers {
		questionIDs = append(questionIDs, a.QuestionID)
	}
	questionByID := make(map[uuid.UUID]models.Question, len(questionIDs))
	if len(questionIDs) > 0 {
		var loaded []models.Question
		if err := db.Where("id IN ?", questionIDs).Find(&loaded).Error; err != nil {
			return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch answer questions", err)
		}
		for _, q := range loaded {
			questionByID[q.ID] = q
		}
	}

	details := make([]answerDetail, 0, len(answers))
	for _, a := range answers {
		detail := answerDetail{Answer: a}
		if q, ok := questionByID[a.QuestionID]; ok {
			question := q
			detail.Question = &question
		}
		details = append(details, detail)
	}

	data := fiber.Map{
		"attempt": attempt,
		"answers": details,
	}

	assessment := new(models.Assessment)
	if err := db.Where("id = ?", attempt.AssessmentID).First(assessment).Error; err == nil {
		data["assessment"] = assessment
	}
	student := new(models.User)
	if err := db.Where("id = ?", attempt.StudentID).First(student).Error; err == nil {
		data["student"] = student.Summary()
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Attempt fetched successfully", data)
}

type attemptListing struct {
	models.Attempt
	Assessment *models.AssessmentSummary `json:"assessment,omitempty"`
	Student    *models.UserSummary       `json:"student,omitempty"`
}

// GetMyAttempts lists the calling student's attempts, newest first.
func GetMyAttempts(c *fiber.Ctx) error {
	db := database.DB

	studentID, err := principalID(c)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user ID format", err)
	}

	var attempts []models.Attempt
	if err := db.Where("student_id = ?", studentID).Order("created_at DESC").Find(&attempts).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch attempts", err)
	}

	listings, err := withProjections(db, attempts, true, false)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch attempt details", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Attempts fetched successfully", fiber.Map{
		"count":    len(listings),
		"attempts": listings,
	})
}

// GetAllAttempts lists every attempt for admin/mentor dashboards.
func GetAllAttempts(c *fiber.Ctx) error {
	db := database.DB

	var attempts []models.Attempt
	if err := db.Order("created_at DESC").Find(&attempts).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch attempts", err)
	}

	listings, err := withProjections(db, attempts, true, true)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch attempt details", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Attempts fetched successfully", fiber.Map{
		"count":    len(listings),
		"attempts": listings,
	})
}

// GetAttemptsByAssessment lists attempts against one assessment.
func GetAttemptsByAssessment(c *fiber.Ctx) error {
	db := database.DB

	var attempts []models.Attempt
	if err := db.Where("assessment_id = ?", c.Params("assessmentId")).Order("created_at DESC").Find(&attempts).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch attempts", err)
	}

	listings, err := withProjections(db, attempts, false, true)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch attempt details", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Attempts fetched successfully", fiber.Map{
		"count":    len(listings),
		"attempts": listings,
	})
}

// withProjections attaches light assessment/student projections to a page of
// attempts with two batched lookups.
func withProjections(db *gorm.DB, attempts []models.Attempt, withAssessment, withStudent bool) ([]attemptListing, error) {
	assessmentByID := make(map[uuid.UUID]models.AssessmentSummary)
	studentByID := make(map[uuid.UUID]models.UserSummary)

	if withAssessment {
		ids := make([]uuid.UUID, 0, len(attempts))
		for _, a := range attempts {
			ids = append(ids, a.AssessmentID)
		}
		if len(ids) > 0 {
			var loaded []models.Assessment
			if err := db.Where("id IN ?", ids).Find(&loaded).Error; err != nil {
				return nil, err
			}
			for _, a := range loaded {
				assessmentByID[a.ID] = a.Summary()
			}
		}
	}

	if withStudent {
		ids := make([]uuid.UUID, 0, len(attempts))
		for _, a := range attempts {
			ids = append(ids, a.StudentID)
		}
		if len(ids) > 0 {
			var loaded []models.User
			if err := db.Where("id IN ?", ids).Find(&loaded).Error; err != nil {
				return nil, err
			}
			for _, u := range loaded {
				studentByID[u.ID] = u.Summary()
			}
		}
	}

	listings := make([]attemptListing, 0, len(attempts))
	for _, a := range attempts {
		listing := attemptListing{Attempt: a}
		if summary, ok := assessmentByID[a.AssessmentID]; ok {
			s := summary
			listing.Assessment = &s
		}
		if summary, ok := studentByID[a.StudentID]; ok {
			s := summary
			listing.Student = &s
		}
		listings = append(listings, listing)
	}
	return listings, nil
}
