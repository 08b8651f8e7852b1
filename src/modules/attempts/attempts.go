package attempts

import (
	"errors"
	"time"

	"github.com/zyntratech-upendra/placements/src/core/database"
	"github.com/zyntratech-upendra/placements/src/core/helpers"
	"github.com/zyntratech-upendra/placements/src/core/models"
	"github.com/zyntratech-upendra/placements/src/modules/assessments"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func principalID(c *fiber.Ctx) (uuid.UUID, error) {
	userID, _ := c.Locals("user_id").(string)
	return uuid.Parse(userID)
}

// StartAttempt starts or resumes a student's attempt. The partial unique
// index on (assessment_id, student_id, status=in_progress) makes the
// find-or-create safe: when two requests race, the insert of the loser is
// swallowed by ON CONFLICT DO NOTHING and the winner's row is returned.
func StartAttempt(c *fiber.Ctx) error {
	db := database.DB

	studentID, err := principalID(c)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user ID format", err)
	}

	body := new(struct {
		AssessmentID uuid.UUID `json:"assessment_id" validate:"required"`
	})
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Missing or invalid fields", err)
	}

	assessment, err := assessments.LoadAssessmentDetail(db, body.AssessmentID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Assessment not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch assessment", err)
	}
	if len(assessment.Questions) == 0 {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Assessment has no questions", nil)
	}

	existing, err := findInProgress(db, body.AssessmentID, studentID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to look up attempt", err)
	}
	if existing != nil {
		return helpers.HandleSuccess(c, fiber.StatusOK, "Resume existing attempt", fiber.Map{
			"attempt":    existing,
			"assessment": assessment,
		})
	}

	attempt := models.Attempt{
		ID:           uuid.New(),
		AssessmentID: body.AssessmentID,
		StudentID:    studentID,
		StartTime:    time.Now(),
		Status:       models.AttemptInProgress,
	}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&attempt)
	if result.Error != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to start attempt", result.Error)
	}
	if result.RowsAffected == 0 {
		// Lost the race against a concurrent start; hand back the winner.
		existing, err = findInProgress(db, body.AssessmentID, studentID)
		if err != nil || existing == nil {
			return helpers.HandleError(c, fiber.StatusConflict, "Attempt already in progress", err)
		}
		return helpers.HandleSuccess(c, fiber.StatusOK, "Resume existing attempt", fiber.Map{
			"attempt":    existing,
			"assessment": assessment,
		})
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Attempt started successfully", fiber.Map{
		"attempt":    attempt,
		"assessment": assessment,
	})
}

// SubmitAnswer records (or replaces) the student's selection for one
// question. The write is a single upsert keyed on (attempt_id, question_id)
// so concurrent answers to different questions cannot clobber each other.
func SubmitAnswer(c *fiber.Ctx) error {
	db := database.DB

	studentID, err := principalID(c)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user ID format", err)
	}

	body := new(struct {
		AttemptID      uuid.UUID `json:"attempt_id" validate:"required"`
		QuestionID     uuid.UUID `json:"question_id" validate:"required"`
		SelectedAnswer string    `json:"selected_answer"`
	})
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Missing or invalid fields", err)
	}

	attempt := new(models.Attempt)
	if err := db.Where("id = ?", body.AttemptID).First(attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Attempt not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch attempt", err)
	}
	if attempt.StudentID != studentID {
		return helpers.HandleError(c, fiber.StatusForbidden, "Not authorized", nil)
	}
	if attempt.Status != models.AttemptInProgress {
		return helpers.HandleError(c, fiber.StatusConflict, "Attempt already submitted", nil)
	}

	question := new(models.Question)
	if err := db.Where("id = ?", body.QuestionID).First(question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Question not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch question", err)
	}

	isCorrect, marks := scoreAnswer(question.CorrectAnswer, body.SelectedAnswer)
	answer := models.Answer{
		AttemptID:      attempt.ID,
		QuestionID:     question.ID,
		SelectedAnswer: body.SelectedAnswer,
		IsCorrect:      isCorrect,
		MarksObtained:  marks,
	}

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "attempt_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"selected_answer", "is_correct", "marks_obtained"}),
	}).Create(&answer).Error
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to record answer", err)
	}

	if err := db.Where("attempt_id = ?", attempt.ID).Order("id ASC").Find(&attempt.Answers).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch attempt answers", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Answer submitted successfully", attempt)
}

// SubmitAttempt finalizes an attempt: scores it, stamps the timing and moves
// it to the terminal submitted state. The status guard in the UPDATE makes a
// double submit lose cleanly even when two requests race.
func SubmitAttempt(c *fiber.Ctx) error {
	db := database.DB

	studentID, err := principalID(c)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user ID format", err)
	}

	body := new(struct {
		AttemptID uuid.UUID `json:"attempt_id" validate:"required"`
	})
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Missing or invalid fields", err)
	}

	attempt := new(models.Attempt)
	if err := db.Where("id = ?", body.AttemptID).First(attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Attempt not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch attempt", err)
	}
	if attempt.StudentID != studentID {
		return helpers.HandleError(c, fiber.StatusForbidden, "Not authorized", nil)
	}
	if attempt.Status != models.AttemptInProgress {
		return helpers.HandleError(c, fiber.StatusConflict, "Attempt already submitted", nil)
	}

	assessment := new(models.Assessment)
	if err := db.Where("id = ?", attempt.AssessmentID).First(assessment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Assessment not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch assessment", err)
	}

	var answers []models.Answer
	if err := db.Where("attempt_id = ?", attempt.ID).Order("id ASC").Find(&answers).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch attempt answers", err)
	}

	totalScore := sumMarks(answers)
	percentage, err := computePercentage(totalScore, assessment.TotalMarks)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Assessment has zero total marks", err)
	}

	endTime := time.Now()
	timeTaken := int64(endTime.Sub(attempt.StartTime).Seconds())

	result := db.Model(&models.Attempt{}).
		Where("id = ? AND status = ?", attempt.ID, models.AttemptInProgress).
		Updates(map[string]interface{}{
			"end_time":    endTime,
			"total_score": totalScore,
			"percentage":  percentage,
			"status":      models.AttemptSubmitted,
			"time_taken":  timeTaken,
		})
	if result.Error != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to submit attempt", result.Error)
	}
	if result.RowsAffected == 0 {
		return helpers.HandleError(c, fiber.StatusConflict, "Attempt already submitted", nil)
	}

	attempt.EndTime = &endTime
	attempt.TotalScore = totalScore
	attempt.Percentage = percentage
	attempt.Status = models.AttemptSubmitted
	attempt.TimeTaken = &timeTaken
	attempt.Answers = answers

	return helpers.HandleSuccess(c, fiber.StatusOK, "Attempt submitted successfully", attempt)
}

func findInProgress(db *gorm.DB, assessmentID, studentID uuid.UUID) (*models.Attempt, error) {
	attempt := new(models.Attempt)
	err := db.Where("assessment_id = ? AND student_id = ? AND status = ?",
		assessmentID, studentID, models.AttemptInProgress).First(attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := db.Where("attempt_id = ?", attempt.ID).Order("id ASC").Find(&attempt.Answers).Error; err != nil {
		return nil, err
	}
	return attempt, nil
}
