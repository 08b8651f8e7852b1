package folders

import (
	"errors"

	"github.com/zyntratech-upendra/placements/src/core/database"
	"github.com/zyntratech-upendra/placements/src/core/helpers"
	"github.com/zyntratech-upendra/placements/src/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type folderInput struct {
	Name        string `json:"name" validate:"required"`
	CompanyName string `json:"company_name" validate:"required"`
	Description string `json:"description"`
}

func CreateFolder(c *fiber.Ctx) error {
	db := database.DB
	userID := c.Locals("user_id").(string)

	body := new(folderInput)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Missing or invalid fields", err)
	}

	creatorID, err := uuid.Parse(userID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user ID format", err)
	}

	folder := models.Folder{
		ID:          uuid.New(),
		Name:        body.Name,
		CompanyName: body.CompanyName,
		Description: body.Description,
		CreatedBy:   creatorID,
	}

	if result := db.Create(&folder); result.Error != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to create folder", result.Error)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Folder created successfully", folder)
}

func GetAllFolders(c *fiber.Ctx) error {
	db := database.DB

	var folders []models.Folder
	if err := db.Order("created_at DESC").Find(&folders).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch folders", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Folders fetched successfully", fiber.Map{
		"count":   len(folders),
		"folders": folders,
	})
}

func GetFolderByID(c *fiber.Ctx) error {
	db := database.DB

	folder := new(models.Folder)
	if err := db.Where("id = ?", c.Params("id")).First(folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Folder not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch folder", err)
	}

	var files []models.File
	if err := db.Where("folder_id = ?", folder.ID).Order("created_at DESC").Find(&files).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch folder files", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Folder fetched successfully", fiber.Map{
		"folder": folder,
		"files":  files,
	})
}

func UpdateFolder(c *fiber.Ctx) error {
	db := database.DB

	folder := new(models.Folder)
	if err := db.Where("id = ?", c.Params("id")).First(folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Folder not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch folder", err)
	}

	body := new(folderInput)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid input data", err)
	}

	updates := map[string]interface{}{}
	if body.Name != "" {
		updates["name"] = body.Name
	}
	if body.CompanyName != "" {
		updates["company_name"] = body.CompanyName
	}
	if body.Description != "" {
		updates["description"] = body.Description
	}

	if len(updates) > 0 {
		if result := db.Model(folder).Updates(updates); result.Error != nil {
			return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to update folder", result.Error)
		}
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Folder updated successfully", folder)
}

// DeleteFolder removes the folder together with its files and every question
// extracted from them.
func DeleteFolder(c *fiber.Ctx) error {
	db := database.DB

	folder := new(models.Folder)
	if err := db.Where("id = ?", c.Params("id")).First(folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Folder not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch folder", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("folder_id = ?", folder.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("folder_id = ?", folder.ID).Delete(&models.File{}).Error; err != nil {
			return err
		}
		return tx.Delete(folder).Error
	})
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to delete folder", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Folder and associated files deleted successfully", nil)
}
