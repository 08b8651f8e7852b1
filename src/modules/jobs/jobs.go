package jobs

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/zyntratech-upendra/placements/src/core/database"
	"github.com/zyntratech-upendra/placements/src/core/helpers"
	"github.com/zyntratech-upendra/placements/src/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type jobInput struct {
	Title       string                 `json:"title" validate:"required"`
	CompanyName string                 `json:"company_name" validate:"required"`
	Description string                 `json:"description" validate:"required"`
	Location    string                 `json:"location" validate:"required"`
	Salary      string                 `json:"salary"`
	JobType     string                 `json:"job_type" validate:"required,oneof=Full-time Part-time Internship Contract"`
	Eligibility *models.JobEligibility `json:"eligibility"`
	Deadline    time.Time              `json:"deadline" validate:"required"`
	Status      string                 `json:"status"`
}

func CreateJob(c *fiber.Ctx) error {
	db := database.DB
	userID := c.Locals("user_id").(string)

	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user ID format", err)
	}

	body := new(jobInput)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Missing or invalid fields", err)
	}

	status := body.Status
	if status == "" {
		status = models.JobStatusActive
	}

	var eligibility json.RawMessage
	if body.Eligibility != nil {
		eligibility, err = json.Marshal(body.Eligibility)
		if err != nil {
			return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid eligibility criteria", err)
		}
	}

	job := models.Job{
		ID:          uuid.New(),
		Title:       body.Title,
		CompanyName: body.CompanyName,
		Description: body.Description,
		Location:    body.Location,
		Salary:      body.Salary,
		JobType:     body.JobType,
		Eligibility: eligibility,
		Deadline:    body.Deadline,
		Status:      status,
		CreatedBy:   creatorID,
	}

	if result := db.Create(&job); result.Error != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to create job", result.Error)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Job created successfully", job)
}

// GetAllJobs lists postings; students only see active ones.
func GetAllJobs(c *fiber.Ctx) error {
	db := database.DB
	role, _ := c.Locals("user_role").(string)

	query := db.Model(&models.Job{})
	if role == models.RoleStudent {
		query = query.Where("status = ?", models.JobStatusActive)
	}

	var jobs []models.Job
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch jobs", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Jobs fetched successfully", fiber.Map{
		"count": len(jobs),
		"jobs":  jobs,
	})
}

func GetJobByID(c *fiber.Ctx) error {
	db := database.DB

	job := new(models.Job)
	if err := db.Where("id = ?", c.Params("id")).First(job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Job not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch job", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Job fetched successfully", job)
}

func UpdateJob(c *fiber.Ctx) error {
	db := database.DB

	job := new(models.Job)
	if err := db.Where("id = ?", c.Params("id")).First(job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Job not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch job", err)
	}

	body := new(jobInput)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}

	updates := map[string]interface{}{}
	if body.Title != "" {
		updates["title"] = body.Title
	}
	if body.CompanyName != "" {
		updates["company_name"] = body.CompanyName
	}
	if body.Description != "" {
		updates["description"] = body.Description
	}
	if body.Location != "" {
		updates["location"] = body.Location
	}
	if body.Salary != "" {
		updates["salary"] = body.Salary
	}
	if body.JobType != "" {
		updates["job_type"] = body.JobType
	}
	if body.Status != "" {
		updates["status"] = body.Status
	}
	if !body.Deadline.IsZero() {
		updates["deadline"] = body.Deadline
	}
	if body.Eligibility != nil {
		eligibility, err := json.Marshal(body.Eligibility)
		if err != nil {
			return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid eligibility criteria", err)
		}
		updates["eligibility"] = eligibility
	}

	if len(updates) > 0 {
		if result := db.Model(job).Updates(updates); result.Error != nil {
			return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to update job", result.Error)
		}
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Job updated successfully", job)
}

func DeleteJob(c *fiber.Ctx) error {
	db := database.DB

	job := new(models.Job)
	if err := db.Where("id = ?", c.Params("id")).First(job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Job not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch job", err)
	}

	if result := db.Delete(job); result.Error != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to delete job", result.Error)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Job deleted successfully", nil)
}
