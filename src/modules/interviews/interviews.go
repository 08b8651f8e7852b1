package interviews

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/zyntratech-upendra/placements/src/core/database"
	"github.com/zyntratech-upendra/placements/src/core/helpers"
	"github.com/zyntratech-upendra/placements/src/core/mlservice"
	"github.com/zyntratech-upendra/placements/src/core/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateSession sets up an AI mock interview: the resume goes to the bucket,
// the ML service turns the job description + resume into questions, and the
// session starts in the created state.
func CreateSession(c *fiber.Ctx) error {
	db := database.DB
	userID := c.Locals("user_id").(string)

	studentID, err := uuid.Parse(userID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid user ID format", err)
	}

	jobDescription := c.FormValue("job_description")
	if jobDescription == "" {
		return helpers.HandleError(c, fiber.StatusBadRequest, "job_description is required", nil)
	}
	duration, err := strconv.Atoi(c.FormValue("duration"))
	if err != nil || duration <= 0 {
		return helpers.HandleError(c, fiber.StatusBadRequest, "duration must be a positive number of seconds", err)
	}

	resume, err := c.FormFile("resume")
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Please upload a resume", err)
	}

	resumeContent, err := resume.Open()
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to open resume", err)
	}
	defer resumeContent.Close()

	resumePath := fmt.Sprintf("resumes/%s-%s", uuid.New().String(), resume.Filename)
	resumeURL, err := database.UploadObject(resumePath, resumeContent)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to upload resume to storage", err)
	}

	generationContent, err := resume.Open()
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to open resume", err)
	}
	questions, resumeText, err := mlservice.GenerateQuestions(jobDescription, duration, resume.Filename, generationContent)
	generationContent.Close()
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to generate interview questions", err)
	}
	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to encode interview questions", err)
	}

	session := models.InterviewSession{
		ID:              uuid.New(),
		StudentID:       studentID,
		JobDescription:  jobDescription,
		ResumePath:      resumePath,
		ResumeURL:       resumeURL,
		ResumeText:      resumeText,
		DurationSeconds: duration,
		Questions:       questionsJSON,
		Status:          models.InterviewCreated,
	}

	if result := db.Create(&session); result.Error != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to create interview session", result.Error)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Interview session created successfully", fiber.Map{
		"session":   session,
		"questions": questions,
	})
}

// UploadAnswer stores one audio answer and transcribes it. A failed
// transcription keeps the audio with an empty transcript; analysis can still
// run for the other answers.
func UploadAnswer(c *fiber.Ctx) error {
	db := database.DB

	session, errResp := loadOwnedSession(c)
	if session == nil {
		return errResp
	}

	questionID := c.FormValue("question_id")
	if questionID == "" {
		return helpers.HandleError(c, fiber.StatusBadRequest, "question_id is required", nil)
	}

	audio, err := c.FormFile("audio")
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Please upload an audio file", err)
	}

	audioContent, err := audio.Open()
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to open audio file", err)
	}
	defer audioContent.Close()

	audioPath := fmt.Sprintf("interview-audio/%s-%s", uuid.New().String(), audio.Filename)
	audioURL, err := database.UploadObject(audioPath, audioContent)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to upload audio to storage", err)
	}

	transcript := ""
	if reopened, err := audio.Open(); err == nil {
		transcript, err = mlservice.Transcribe(audio.Filename, reopened)
		reopened.Close()
		if err != nil {
			fmt.Println("Transcription failed:", err)
			transcript = ""
		}
	}

	answer := models.InterviewAnswer{
		ID:         uuid.New(),
		SessionID:  session.ID,
		QuestionID: questionID,
		AudioPath:  audioPath,
		AudioURL:   audioURL,
		Transcript: transcript,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}
		if session.Status == models.InterviewCreated {
			return tx.Model(session).Update("status", models.InterviewInProgress).Error
		}
		return nil
	})
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to record answer", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Answer uploaded successfully", answer)
}

// CompleteSession closes the interview and asks the ML service to score the
// transcribed answers.
func CompleteSession(c *fiber.Ctx) error {
	db := database.DB

	session, errResp := loadOwnedSession(c)
	if session == nil {
		return errResp
	}

	if session.Status == models.InterviewAnalyzed {
		return helpers.HandleError(c, fiber.StatusConflict, "Interview already analyzed", nil)
	}

	if err := db.Model(session).Update("status", models.InterviewCompleted).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to update session", err)
	}

	evaluations, err := mlservice.AnalyzeSession(session.ID.String())
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Interview analysis failed", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, eval := range evaluations {
			updates := map[string]interface{}{
				"score":    eval.Score,
				"feedback": eval.Feedback,
			}
			if err := tx.Model(&models.InterviewAnswer{}).
				Where("session_id = ? AND question_id = ?", session.ID, eval.QuestionID).
				Updates(updates).Error; err != nil {
				return err
			}
		}
		return tx.Model(session).Update("status", models.InterviewAnalyzed).Error
	})
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to store analysis results", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Interview analyzed successfully", fiber.Map{
		"session_id":  session.ID,
		"evaluations": evaluations,
	})
}

// GetMySessions lists the calling student's interviews, newest first.
func GetMySessions(c *fiber.Ctx) error {
	db := database.DB
	userID := c.Locals("user_id").(string)

	var sessions []models.InterviewSession
	if err := db.Where("student_id = ?", userID).Order("created_at DESC").Find(&sessions).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch interview sessions", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Interview sessions fetched successfully", fiber.Map{
		"count":    len(sessions),
		"sessions": sessions,
	})
}

// GetSession returns a session with its answers. Owner, admin and mentor only.
func GetSession(c *fiber.Ctx) error {
	db := database.DB
	userID := c.Locals("user_id").(string)
	role, _ := c.Locals("user_role").(string)

	session := new(models.InterviewSession)
	if err := db.Where("id = ?", c.Params("id")).First(session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, "Interview session not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch interview session", err)
	}

	if session.StudentID.String() != userID && role != models.RoleAdmin && role != models.RoleMentor {
		return helpers.HandleError(c, fiber.StatusForbidden, "Not authorized", nil)
	}

	var answers []models.InterviewAnswer
	if err := db.Where("session_id = ?", session.ID).Order("created_at ASC").Find(&answers).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch interview answers", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Interview session fetched successfully", fiber.Map{
		"session": session,
		"answers": answers,
	})
}

// loadOwnedSession fetches the session in :id and enforces ownership. On
// failure it returns nil and the already-written error response.
func loadOwnedSession(c *fiber.Ctx) (*models.InterviewSession, error) {
	db := database.DB
	userID := c.Locals("user_id").(string)

	session := new(models.InterviewSession)
	if err := db.Where("id = ?", c.Params("id")).First(session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helpers.HandleError(c, fiber.StatusNotFound, "Interview session not found", err)
		}
		return nil, helpers.HandleError(c, fiber.StatusInternalServerError, "Failed to fetch interview session", err)
	}

	if session.StudentID.String() != userID {
		return nil, helpers.HandleError(c, fiber.StatusForbidden, "Not authorized", nil)
	}
	return session, nil
}
