package assessments

import (
	"errors"
	"time"

	"github.com/zyntratech-upendra/placements/src/core/database"
	"github.com/zyntratech-upendra/placements/src/core/helpers"
	"github.com/zyntratech-upendra/placements/src/core/models"
	"github.com/zyntratech-upendra/placements/src/core/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type createInput struct {
	Title           string       `json:"title" validate:"required"`
	Description     string       `json:"description"`
	CompanyName     string       `json:"company_name" validate:"required"`
	FolderID        *uuid.UUID   `json:"folder_id"`
	Duration        int          `json:"duration" validate:"required,min=1"`
	TotalMarks      int          `json:"total_marks" validate:"required,min=1"`
	ScheduledDate   *time.Time   `json:"scheduled_date"`
	EndDate         *time.Time   `json:"end_date"`
	IsPractice      bool         `json:"is_practice"`
	AssessmentType  string       `json:"assessment_type"`
	AllowedStudents []uuid.UUID  `json:"allowed_students"`
	QuestionIDs     []uuid.UUID  `json:"question_ids"`
}

// CreateAssessment registers a new assessment with an explicit (possibly
// empty) question set. Question existence is the caller's responsibility.
func CreateAssessment(c *fiber.Ctx) error {
	db := database.DB
	userID := c.Locals("user_id").(string)

	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user ID format", err)
	}

	body := new(createInput)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Missing or invalid fields", err)
	}

	assessmentType := body.AssessmentType
	if assessmentType == "" {
		assessmentType = models.AssessmentTypePractice
	}

	assessment := models.Assessment{
		ID:             uuid.New(),
		Title:          body.Title,
		Description:    body.Description,
		CompanyName:    body.CompanyName,
		FolderID:       body.FolderID,
		Duration:       body.Duration,
		TotalMarks:     body.TotalMarks,
		ScheduledDate:  body.ScheduledDate,
		EndDate:        body.EndDate,
		IsActive:       true,
		IsPractice:     body.IsPractice,
		AssessmentType: assessmentType,
		CreatedBy:      creatorID,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&assessment).Error; err != nil {
			return err
		}
		if err := replaceQuestionSet(tx, assessment.ID, body.QuestionIDs); err != nil {
			return err
		}
		return replaceAllowedStudents(tx, assessment.ID, body.AllowedStudents)
	})
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to create assessment", err)
	}

	assessment.AllowedStudents = body.AllowedStudents
	return helpers.HandleSuccess(c, fiber.StatusCreated, "Assessment created successfully", assessment)
}

// GetAllAssessments lists assessments visible to the principal, newest first.
func GetAllAssessments(c *fiber.Ctx) error {
	db := database.DB
	userID := c.Locals("user_id").(string)
	role, _ := c.Locals("user_role").(string)

	principalID, err := uuid.Parse(userID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user ID format", err)
	}

	var assessments []models.Assessment
	query := policy.VisibleAssessments(db.Model(&models.Assessment{}), principalID, role)
	if err := query.Order("created_at DESC").Find(&assessments).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch assessments", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Assessments fetched successfully", fiber.Map{
		"count":       len(assessments),
		"assessments": assessments,
	})
}

func GetAssessmentByID(c *fiber.Ctx) error {
	db := database.DB
	userID := c.Locals("user_id").(string)
	role, _ := c.Locals("user_role").(string)

	principalID, err := uuid.Parse(userID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user ID format", err)
	}

	assessment, err := LoadAssessmentDetail(db, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Assessment not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch assessment", err)
	}

	if !policy.CanViewAssessment(*assessment, principalID, role) {
		return helpers.HandleError(c, fiber.StatusForbidden, "Not authorized", nil)
	}

	data := fiber.Map{"assessment": assessment}
	if assessment.FolderID != nil {
		folder := new(models.Folder)
		if err := db.Where("id = ?", *assessment.FolderID).First(folder).Error; err == nil {
			data["folder"] = folder
		}
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Assessment fetched successfully", data)
}

type updateInput struct {
	Title           string        `json:"title"`
	Description     *string       `json:"description"`
	CompanyName     string        `json:"company_name"`
	FolderID        *uuid.UUID    `json:"folder_id"`
	Duration        *int          `json:"duration"`
	TotalMarks      *int          `json:"total_marks"`
	ScheduledDate   *time.Time    `json:"scheduled_date"`
	EndDate         *time.Time    `json:"end_date"`
	IsActive        *bool         `json:"is_active"`
	IsPractice      *bool         `json:"is_practice"`
	AssessmentType  string        `json:"assessment_type"`
	AllowedStudents *[]uuid.UUID  `json:"allowed_students"`
	QuestionIDs     *[]uuid.UUID  `json:"question_ids"`
}

// UpdateAssessment applies a partial update; omitted fields are left alone.
func UpdateAssessment(c *fiber.Ctx) error {
	db := database.DB

	assessment := new(models.Assessment)
	if err := db.Where("id = ?", c.Params("id")).First(assessment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Assessment not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch assessment", err)
	}

	body := new(updateInput)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}

	updates := map[string]interface{}{}
	if body.Title != "" {
		updates["title"] = body.Title
	}
	if body.Description != nil {
		updates["description"] = *body.Description
	}
	if body.CompanyName != "" {
		updates["company_name"] = body.CompanyName
	}
	if body.FolderID != nil {
		updates["folder_id"] = *body.FolderID
	}
	if body.Duration != nil {
		if *body.Duration < 1 {
			return helpers.HandleError(c, fiber.StatusBadRequest, "Duration must be at least one minute", nil)
		}
		updates["duration"] = *body.Duration
	}
	if body.TotalMarks != nil {
		updates["total_marks"] = *body.TotalMarks
	}
	if body.ScheduledDate != nil {
		updates["scheduled_date"] = *body.ScheduledDate
	}
	if body.EndDate != nil {
		updates["end_date"] = *body.EndDate
	}
	if body.IsActive != nil {
		updates["is_active"] = *body.IsActive
	}
	if body.IsPractice != nil {
		updates["is_practice"] = *body.IsPractice
	}
	if body.AssessmentType != "" {
		updates["assessment_type"] = body.AssessmentType
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(assessment).Updates(updates).Error; err != nil {
				return err
			}
		}
		if body.QuestionIDs != nil {
			if err := tx.Where("assessment_id = ?", assessment.ID).Delete(&models.AssessmentQuestion{}).Error; err != nil {
				return err
			}
			if err := replaceQuestionSet(tx, assessment.ID, *body.QuestionIDs); err != nil {
				return err
			}
		}
		if body.AllowedStudents != nil {
			if err := tx.Where("assessment_id = ?", assessment.ID).Delete(&models.AssessmentStudent{}).Error; err != nil {
				return err
			}
			return replaceAllowedStudents(tx, assessment.ID, *body.AllowedStudents)
		}
		return nil
	})
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to update assessment", err)
	}

	updated, err := LoadAssessmentDetail(db, assessment.ID.String())
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch assessment", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Assessment updated successfully", updated)
}

// DeleteAssessment removes the assessment and its join rows. Attempts that
// reference it are kept as an audit trail.
func DeleteAssessment(c *fiber.Ctx) error {
	db := database.DB

	assessment := new(models.Assessment)
	if err := db.Where("id = ?", c.Params("id")).First(assessment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Assessment not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch assessment", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assessment_id = ?", assessment.ID).Delete(&models.AssessmentQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assessment_id = ?", assessment.ID).Delete(&models.AssessmentStudent{}).Error; err != nil {
			return err
		}
		return tx.Delete(assessment).Error
	})
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to delete assessment", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Assessment deleted successfully", nil)
}

// LoadAssessmentDetail fetches an assessment with its question bodies in
// position order and its allowed-student ids populated.
func LoadAssessmentDetail(db *gorm.DB, id string) (*models.Assessment, error) {
	assessment := new(models.Assessment)
	if err := db.Where("id = ?", id).First(assessment).Error; err != nil {
		return nil, err
	}

	var refs []models.AssessmentQuestion
	if err := db.Where("assessment_id = ?", assessment.ID).Order("position ASC").Find(&refs).Error; err != nil {
		return nil, err
	}

	if len(refs) > 0 {
		ids := make([]uuid.UUID, 0, len(refs))
		for _, ref := range refs {
			ids = append(ids, ref.QuestionID)
		}
		var loaded []models.Question
		if err := db.Where("id IN ?", ids).Find(&loaded).Error; err != nil {
			return nil, err
		}
		byID := make(map[uuid.UUID]models.Question, len(loaded))
		for _, q := range loaded {
			byID[q.ID] = q
		}
		assessment.Questions = make([]models.Question, 0, len(refs))
		for _, ref := range refs {
			if q, ok := byID[ref.QuestionID]; ok {
				assessment.Questions = append(assessment.Questions, q)
			}
		}
	}

	var memberships []models.AssessmentStudent
	if err := db.Where("assessment_id = ?", assessment.ID).Find(&memberships).Error; err != nil {
		return nil, err
	}
	for _, m := range memberships {
		assessment.AllowedStudents = append(assessment.AllowedStudents, m.StudentID)
	}

	return assessment, nil
}

func replaceQuestionSet(tx *gorm.DB, assessmentID uuid.UUID, questionIDs []uuid.UUID) error {
	if len(questionIDs) == 0 {
		return nil
	}
	refs := make([]models.AssessmentQuestion, 0, len(questionIDs))
	for i, qid := range questionIDs {
		refs = append(refs, models.AssessmentQuestion{
			AssessmentID: assessmentID,
			QuestionID:   qid,
			Position:     i,
		})
	}
	return tx.Create(&refs).Error
}

func replaceAllowedStudents(tx *gorm.DB, assessmentID uuid.UUID, studentIDs []uuid.UUID) error {
	if len(studentIDs) == 0 {
		return nil
	}
	memberships := make([]models.AssessmentStudent, 0, len(studentIDs))
	for _, sid := range studentIDs {
		memberships = append(memberships, models.AssessmentStudent{
			AssessmentID: assessmentID,
			StudentID:    sid,
		})
	}
	return tx.Create(&memberships).Error
}
