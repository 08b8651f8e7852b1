package attempts

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zyntratech-upendra/placements/src/core/database"
	"github.com/zyntratech-upendra/placements/src/core/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("setupTestDB: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("setupTestDB migrate: %v", err)
	}
	database.DB = db
	return db
}

func authAs(user models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", user.ID.String())
		c.Locals("user_role", user.Role)
		return c.Next()
	}
}

func newTestApp(user models.User) *fiber.App {
	app := fiber.New()
	app.Post("/attempts/start", authAs(user), StartAttempt)
	app.Post("/attempts/answer", authAs(user), SubmitAnswer)
	app.Post("/attempts/submit", authAs(user), SubmitAttempt)
	app.Get("/attempts/my-attempts", authAs(user), GetMyAttempts)
	app.Get("/attempts/:id", authAs(user), GetAttemptByID)
	return app
}

func newStudent(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    name + "@test.edu",
		Password: "hashed",
		Role:     models.RoleStudent,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("newStudent: %v", err)
	}
	return user
}

// seedAssessment creates an assessment whose questions have the given correct
// answers, one mark each.
func seedAssessment(t *testing.T, db *gorm.DB, correctAnswers []string, totalMarks int) (models.Assessment, []models.Question) {
	t.Helper()

	fileID := uuid.New()
	folderID := uuid.New()
	options, _ := json.Marshal([]string{"A", "B", "C", "D"})

	questions := make([]models.Question, 0, len(correctAnswers))
	for i, answer := range correctAnswers {
		correct := answer
		questions = append(questions, models.Question{
			ID:            uuid.New(),
			FileID:        fileID,
			FolderID:      folderID,
			QuestionText:  "Question " + string(rune('1'+i)),
			Options:       options,
			CorrectAnswer: &correct,
			Difficulty:    models.DifficultyMedium,
			Topic:         "General",
			QuestionType:  models.QuestionTypeMCQ,
		})
	}
	if len(questions) > 0 {
		if err := db.Create(&questions).Error; err != nil {
			t.Fatalf("seedAssessment questions: %v", err)
		}
	}

	assessment := models.Assessment{
		ID:             uuid.New(),
		Title:          "Seeded Assessment",
		CompanyName:    "Acme",
		Duration:       30,
		TotalMarks:     totalMarks,
		IsActive:       true,
		AssessmentType: models.AssessmentTypeScheduled,
		CreatedBy:      uuid.New(),
	}
	if err := db.Create(&assessment).Error; err != nil {
		t.Fatalf("seedAssessment: %v", err)
	}
	for i, q := range questions {
		ref := models.AssessmentQuestion{AssessmentID: assessment.ID, QuestionID: q.ID, Position: i}
		if err := db.Create(&ref).Error; err != nil {
			t.Fatalf("seedAssessment question ref: %v", err)
		}
	}
	return assessment, questions
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("postJSON marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("postJSON %s: %v", path, err)
	}
	return resp
}

func startAttempt(t *testing.T, db *gorm.DB, app *fiber.App, assessmentID uuid.UUID) models.Attempt {
	t.Helper()
	resp := postJSON(t, app, "/attempts/start", fiber.Map{"assessment_id": assessmentID})
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		t.Fatalf("startAttempt status = %d", resp.StatusCode)
	}
	var attempt models.Attempt
	if err := db.Where("assessment_id = ?", assessmentID).Order("created_at DESC").First(&attempt).Error; err != nil {
		t.Fatalf("startAttempt lookup: %v", err)
	}
	return attempt
}

func TestStartAttemptCreatesAndResumes(t *testing.T) {
	db := setupTestDB(t)
	student := newStudent(t, db, "asha")
	assessment, _ := seedAssessment(t, db, []string{"B", "A"}, 2)
	app := newTestApp(student)

	resp := postJSON(t, app, "/attempts/start", fiber.Map{"assessment_id": assessment.ID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first start status = %d, want 201", resp.StatusCode)
	}

	resp = postJSON(t, app, "/attempts/start", fiber.Map{"assessment_id": assessment.ID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second start status = %d, want 200 (resume)", resp.StatusCode)
	}

	var count int64
	if err := db.Model(&models.Attempt{}).Where("assessment_id = ? AND student_id = ?", assessment.ID, student.ID).Count(&count).Error; err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if count != 1 {
		t.Errorf("attempt rows = %d, want 1 (resume must not create a duplicate)", count)
	}
}

func TestStartAttemptMissingAssessment(t *testing.T) {
	db := setupTestDB(t)
	student := newStudent(t, db, "asha")
	app := newTestApp(student)

	resp := postJSON(t, app, "/attempts/start", fiber.Map{"assessment_id": uuid.New()})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("start status = %d, want 404", resp.StatusCode)
	}
}

func TestStartAttemptNoQuestions(t *testing.T) {
	db := setupTestDB(t)
	student := newStudent(t, db, "asha")
	assessment, _ := seedAssessment(t, db, nil, 10)
	app := newTestApp(student)

	resp := postJSON(t, app, "/attempts/start", fiber.Map{"assessment_id": assessment.ID})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("start status = %d, want 400 for questionless assessment", resp.StatusCode)
	}
}

func TestSubmitAnswerUpsertsByQuestion(t *testing.T) {
	db := setupTestDB(t)
	student := newStudent(t, db, "asha")
	assessment, questions := seedAssessment(t, db, []string{"B", "A"}, 2)
	app := newTestApp(student)
	attempt := startAttempt(t, db, app, assessment.ID)

	for _, selected := range []string{"A", "C", "B"} {
		resp := postJSON(t, app, "/attempts/answer", fiber.Map{
			"attempt_id":      attempt.ID,
			"question_id":     questions[0].ID,
			"selected_answer": selected,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("answer status = %d, want 200", resp.StatusCode)
		}
	}

	var answers []models.Answer
	if err := db.Where("attempt_id = ?", attempt.ID).Find(&answers).Error; err != nil {
		t.Fatalf("load answers: %v", err)
	}
	if len(answers) != 1 {
		t.Fatalf("answer rows = %d, want 1 (upsert per question)", len(answers))
	}
	if answers[0].SelectedAnswer != "B" {
		t.Errorf("selected answer = %q, want most recent %q", answers[0].SelectedAnswer, "B")
	}
	if !answers[0].IsCorrect || answers[0].MarksObtained != 1 {
		t.Errorf("final answer scored (%v, %d), want (true, 1)", answers[0].IsCorrect, answers[0].MarksObtained)
	}
}

func TestSubmitAnswerForeignStudent(t *testing.T) {
	db := setupTestDB(t)
	owner := newStudent(t, db, "asha")
	intruder := newStudent(t, db, "ravi")
	assessment, questions := seedAssessment(t, db, []string{"B"}, 1)

	ownerApp := newTestApp(owner)
	attempt := startAttempt(t, db, ownerApp, assessment.ID)

	intruderApp := newTestApp(intruder)
	resp := postJSON(t, intruderApp, "/attempts/answer", fiber.Map{
		"attempt_id":      attempt.ID,
		"question_id":     questions[0].ID,
		"selected_answer": "B",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("foreign answer status = %d, want 403", resp.StatusCode)
	}
}

func TestSubmitAnswerMissingQuestion(t *testing.T) {
	db := setupTestDB(t)
	student := newStudent(t, db, "asha")
	assessment, _ := seedAssessment(t, db, []string{"B"}, 1)
	app := newTestApp(student)
	attempt := startAttempt(t, db, app, assessment.ID)

	resp := postJSON(t, app, "/attempts/answer", fiber.Map{
		"attempt_id":      attempt.ID,
		"question_id":     uuid.New(),
		"selected_answer": "B",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing question status = %d, want 404", resp.StatusCode)
	}
}

func TestSubmitAttemptScoring(t *testing.T) {
	db := setupTestDB(t)
	student := newStudent(t, db, "asha")
	assessment, questions := seedAssessment(t, db, []string{"B", "A", "C"}, 3)
	app := newTestApp(student)
	attempt := startAttempt(t, db, app, assessment.ID)

	selections := []string{"B", "A", "D"} // Q3 wrong
	for i, q := range questions {
		resp := postJSON(t, app, "/attempts/answer", fiber.Map{
			"attempt_id":      attempt.ID,
			"question_id":     q.ID,
			"selected_answer": selections[i],
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("answer %d status = %d", i, resp.StatusCode)
		}
	}

	resp := postJSON(t, app, "/attempts/submit", fiber.Map{"attempt_id": attempt.ID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit status = %d, want 200", resp.StatusCode)
	}

	var submitted models.Attempt
	if err := db.Where("id = ?", attempt.ID).First(&submitted).Error; err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	if submitted.Status != models.AttemptSubmitted {
		t.Errorf("status = %q, want %q", submitted.Status, models.AttemptSubmitted)
	}
	if submitted.TotalScore != 2 {
		t.Errorf("total score = %d, want 2", submitted.TotalScore)
	}
	if submitted.Percentage != 66.67 {
		t.Errorf("percentage = %v, want 66.67", submitted.Percentage)
	}
	if submitted.EndTime == nil {
		t.Error("end time not set on submit")
	}
	if submitted.TimeTaken == nil || *submitted.TimeTaken < 0 {
		t.Errorf("time taken = %v, want non-negative seconds", submitted.TimeTaken)
	}
}

func TestSubmitAttemptIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	student := newStudent(t, db, "asha")
	assessment, questions := seedAssessment(t, db, []string{"B"}, 1)
	app := newTestApp(student)
	attempt := startAttempt(t, db, app, assessment.ID)

	resp := postJSON(t, app, "/attempts/submit", fiber.Map{"attempt_id": attempt.ID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit status = %d, want 200", resp.StatusCode)
	}

	resp = postJSON(t, app, "/attempts/submit", fiber.Map{"attempt_id": attempt.ID})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("second submit status = %d, want 409", resp.StatusCode)
	}

	resp = postJSON(t, app, "/attempts/answer", fiber.Map{
		"attempt_id":      attempt.ID,
		"question_id":     questions[0].ID,
		"selected_answer": "B",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("answer after submit status = %d, want 409", resp.StatusCode)
	}
}

func TestSubmitAttemptZeroTotalMarks(t *testing.T) {
	db := setupTestDB(t)
	student := newStudent(t, db, "asha")
	assessment, _ := seedAssessment(t, db, []string{"B"}, 1)
	app := newTestApp(student)
	attempt := startAttempt(t, db, app, assessment.ID)

	if err := db.Model(&models.Assessment{}).Where("id = ?", assessment.ID).Update("total_marks", 0).Error; err != nil {
		t.Fatalf("zero total marks: %v", err)
	}

	resp := postJSON(t, app, "/attempts/submit", fiber.Map{"attempt_id": attempt.ID})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("submit status = %d, want 400 for zero total marks", resp.StatusCode)
	}

	var unchanged models.Attempt
	if err := db.Where("id = ?", attempt.ID).First(&unchanged).Error; err != nil {
		t.Fatalf("reload attempt: %v", err)
	}
	if unchanged.Status != models.AttemptInProgress {
		t.Errorf("status = %q, want still in_progress after rejected submit", unchanged.Status)
	}
}

func TestStartAttemptAfterSubmitStartsFresh(t *testing.T) {
	db := setupTestDB(t)
	student := newStudent(t, db, "asha")
	assessment, _ := seedAssessment(t, db, []string{"B"}, 1)
	app := newTestApp(student)
	first := startAttempt(t, db, app, assessment.ID)

	resp := postJSON(t, app, "/attempts/submit", fiber.Map{"attempt_id": first.ID})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit status = %d", resp.StatusCode)
	}

	resp = postJSON(t, app, "/attempts/start", fiber.Map{"assessment_id": assessment.ID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("restart status = %d, want 201 after previous attempt was submitted", resp.StatusCode)
	}

	var count int64
	if err := db.Model(&models.Attempt{}).Where("assessment_id = ? AND student_id = ?", assessment.ID, student.ID).Count(&count).Error; err != nil {
		t.Fatalf("count attempts: %v", err)
	}
	if count != 2 {
		t.Errorf("attempt rows = %d, want 2 (submitted + fresh)", count)
	}
}
