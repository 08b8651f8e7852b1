package files

import (
	"errors"
	"fmt"

	"github.com/zyntratech-upendra/placements/src/core/database"
	"github.com/zyntratech-upendra/placements/src/core/helpers"
	"github.com/zyntratech-upendra/placements/src/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadFile stores a source document in the bucket and registers it against
// a folder. OCR runs later via ProcessOCR.
func UploadFile(c *fiber.Ctx) error {
	db := database.DB
	userID := c.Locals("user_id").(string)

	uploaderID, err := uuid.Parse(userID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user ID format", err)
	}

	folderID, err := uuid.Parse(c.FormValue("folder_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid or missing folder_id", err)
	}

	folder := new(models.Folder)
	if err := db.Where("id = ?", folderID).First(folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Folder not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch folder", err)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Please upload a file", err)
	}

	fileContent, err := file.Open()
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to open file", err)
	}
	defer fileContent.Close()

	fileName := uuid.New().String() + "-" + file.Filename
	storagePath := fmt.Sprintf("documents/%s", fileName)
	publicURL, err := database.UploadObject(storagePath, fileContent)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to upload file to storage", err)
	}

	record := models.File{
		ID:           uuid.New(),
		Filename:     fileName,
		OriginalName: file.Filename,
		StoragePath:  storagePath,
		PublicURL:    publicURL,
		FileType:     file.Header.Get("Content-Type"),
		FileSize:     file.Size,
		FolderID:     folderID,
		UploadedBy:   uploaderID,
		OCRStatus:    models.OCRStatusPending,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Model(&models.Folder{}).Where("id = ?", folderID).
			UpdateColumn("file_count", gorm.Expr("file_count + 1")).Error
	})
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to register file", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "File uploaded successfully", record)
}

func GetAllFiles(c *fiber.Ctx) error {
	db := database.DB

	var files []models.File
	if err := db.Order("created_at DESC").Find(&files).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch files", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Files fetched successfully", fiber.Map{
		"count": len(files),
		"files": files,
	})
}

func GetFilesByFolder(c *fiber.Ctx) error {
	db := database.DB

	var files []models.File
	if err := db.Where("folder_id = ?", c.Params("folderId")).Order("created_at DESC").Find(&files).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch files", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Files fetched successfully", fiber.Map{
		"count": len(files),
		"files": files,
	})
}

// DeleteFile drops the row, its extracted questions and the stored object,
// and decrements the folder's file count (floored at zero).
func DeleteFile(c *fiber.Ctx) error {
	db := database.DB

	file := new(models.File)
	if err := db.Where("id = ?", c.Params("id")).First(file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "File not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch file", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("file_id = ?", file.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Folder{}).Where("id = ? AND file_count > 0", file.FolderID).
			UpdateColumn("file_count", gorm.Expr("file_count - 1")).Error; err != nil {
			return err
		}
		return tx.Delete(file).Error
	})
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to delete file", err)
	}

	if err := database.RemoveObject(file.StoragePath); err != nil {
		// The DB row is gone; losing the object cleanup is logged by storage.
		fmt.Println("Failed to remove stored object:", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "File deleted successfully", nil)
}
