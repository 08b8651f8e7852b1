package assessments

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

func authAs(id uuid.UUID, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", id.String())
		c.Locals("user_role", role)
		return c.Next()
	}
}

func newTestApp(id uuid.UUID, role string) *fiber.App {
	app := fiber.New()
	app.Post("/assessments", authAs(id, role), CreateAssessment)
	app.Get("/assessments", authAs(id, role), GetAllAssessments)
	app.Post("/assessments/random", authAs(id, role), GenerateRandomAssessment)
	app.Get("/assessments/:id", authAs(id, role), GetAssessmentByID)
	return app
}

func request(t *testing.T, app *fiber.App, method, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("request marshal: %v", err)
		}
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, path, err)
	}
	decoded := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func seedFolderQuestions(t *testing.T, db *gorm.DB, n int) uuid.UUID {
	t.Helper()
	folderID := uuid.New()
	fileID := uuid.New()
	options, _ := json.Marshal([]string{"A", "B", "C", "D"})
	correct := "A"

	questions := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, models.Question{
			ID:            uuid.New(),
			FileID:        fileID,
			FolderID:      folderID,
			QuestionText:  "Pool question",
			Options:       options,
			CorrectAnswer: &correct,
			Difficulty:    models.DifficultyMedium,
			Topic:         "General",
			QuestionType:  models.QuestionTypeMCQ,
		})
	}
	if n > 0 {
		if err := db.Create(&questions).Error; err != nil {
			t.Fatalf("seedFolderQuestions: %v", err)
		}
	}
	return folderID
}

func TestCreateAssessmentValidation(t *testing.T) {
	setupTestDB(t)
	app := newTestApp(uuid.New(), models.RoleAdmin)

	tests := []struct {
		name    string
		payload fiber.Map
		want    int
	}{
		{"missing title", fiber.Map{"company_name": "Acme", "duration": 30, "total_marks": 5}, http.StatusBadRequest},
		{"missing company", fiber.Map{"title": "T", "duration": 30, "total_marks": 5}, http.StatusBadRequest},
		{"missing duration", fiber.Map{"title": "T", "company_name": "Acme", "total_marks": 5}, http.StatusBadRequest},
		{"missing total marks", fiber.Map{"title": "T", "company_name": "Acme", "duration": 30}, http.StatusBadRequest},
		{"complete", fiber.Map{"title": "T", "company_name": "Acme", "duration": 30, "total_marks": 5}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := request(t, app, http.MethodPost, "/assessments", tt.payload)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestCreateAssessmentKeepsQuestionOrder(t *testing.T) {
	db := setupTestDB(t)
	folderID := seedFolderQuestions(t, db, 4)
	app := newTestApp(uuid.New(), models.RoleAdmin)

	var pool []models.Question
	if err := db.Where("folder_id = ?", folderID).Find(&pool).Error; err != nil {
		t.Fatalf("load pool: %v", err)
	}
	ids := []uuid.UUID{pool[2].ID, pool[0].ID, pool[3].ID}

	resp, _ := request(t, app, http.MethodPost, "/assessments", fiber.Map{
		"title": "Ordered", "company_name": "Acme", "duration": 30, "total_marks": 3,
		"question_ids": ids,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	var assessment models.Assessment
	if err := db.Where("title = ?", "Ordered").First(&assessment).Error; err != nil {
		t.Fatalf("load assessment: %v", err)
	}
	loaded, err := LoadAssessmentDetail(db, assessment.ID.String())
	if err != nil {
		t.Fatalf("LoadAssessmentDetail: %v", err)
	}
	if len(loaded.Questions) != 3 {
		t.Fatalf("question count = %d, want 3", len(loaded.Questions))
	}
	for i, q := range loaded.Questions {
		if q.ID != ids[i] {
			t.Errorf("question %d = %s, want %s (position order)", i, q.ID, ids[i])
		}
	}
}

func TestStudentVisibilityFilter(t *testing.T) {
	db := setupTestDB(t)
	studentID := uuid.New()
	creatorID := uuid.New()

	practice := models.Assessment{
		ID: uuid.New(), Title: "Practice", CompanyName: "Acme", Duration: 30,
		TotalMarks: 5, IsActive: true, IsPractice: true,
		AssessmentType: models.AssessmentTypePractice, CreatedBy: creatorID,
	}
	scheduled := models.Assessment{
		ID: uuid.New(), Title: "Scheduled", CompanyName: "Acme", Duration: 30,
		TotalMarks: 5, IsActive: true,
		AssessmentType: models.AssessmentTypeScheduled, CreatedBy: creatorID,
	}
	invited := models.Assessment{
		ID: uuid.New(), Title: "Invited", CompanyName: "Acme", Duration: 30,
		TotalMarks: 5, IsActive: true,
		AssessmentType: models.AssessmentTypeScheduled, CreatedBy: creatorID,
	}
	for _, a := range []models.Assessment{practice, scheduled, invited} {
		rec := a
		if err := db.Create(&rec).Error; err != nil {
			t.Fatalf("seed assessment: %v", err)
		}
	}
	membership := models.AssessmentStudent{AssessmentID: invited.ID, StudentID: studentID}
	if err := db.Create(&membership).Error; err != nil {
		t.Fatalf("seed membership: %v", err)
	}

	studentApp := newTestApp(studentID, models.RoleStudent)
	resp, decoded := request(t, studentApp, http.MethodGet, "/assessments", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	titles := listedTitles(t, decoded)
	if len(titles) != 2 || !titles["Practice"] || !titles["Invited"] {
		t.Errorf("student sees %v, want only Practice and Invited", titles)
	}

	mentorApp := newTestApp(creatorID, models.RoleMentor)
	resp, decoded = request(t, mentorApp, http.MethodGet, "/assessments", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("mentor list status = %d", resp.StatusCode)
	}
	if titles = listedTitles(t, decoded); len(titles) != 3 {
		t.Errorf("mentor sees %v, want all three", titles)
	}
}

func listedTitles(t *testing.T, decoded map[string]interface{}) map[string]bool {
	t.Helper()
	data, _ := decoded["data"].(map[string]interface{})
	items, _ := data["assessments"].([]interface{})
	titles := map[string]bool{}
	for _, item := range items {
		entry, _ := item.(map[string]interface{})
		if title, ok := entry["title"].(string); ok {
			titles[title] = true
		}
	}
	return titles
}

func TestGenerateRandomNotEnoughQuestions(t *testing.T) {
	db := setupTestDB(t)
	folderID := seedFolderQuestions(t, db, 3)
	app := newTestApp(uuid.New(), models.RoleStudent)

	resp, _ := request(t, app, http.MethodPost, "/assessments/random", fiber.Map{
		"folder_id": folderID, "number_of_questions": 5, "duration": 20,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for short pool", resp.StatusCode)
	}

	var count int64
	if err := db.Model(&models.Assessment{}).Count(&count).Error; err != nil {
		t.Fatalf("count assessments: %v", err)
	}
	if count != 0 {
		t.Errorf("assessments created = %d, want 0 after rejected generation", count)
	}
}

func TestGenerateRandomAssessment(t *testing.T) {
	db := setupTestDB(t)
	folderID := seedFolderQuestions(t, db, 10)
	app := newTestApp(uuid.New(), models.RoleStudent)

	resp, _ := request(t, app, http.MethodPost, "/assessments/random", fiber.Map{
		"folder_id": folderID, "number_of_questions": 4, "duration": 20,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var assessment models.Assessment
	if err := db.Where("assessment_type = ?", models.AssessmentTypeRandom).First(&assessment).Error; err != nil {
		t.Fatalf("load generated assessment: %v", err)
	}
	if !assessment.IsPractice {
		t.Error("generated assessment not marked as practice")
	}
	if assessment.TotalMarks != 4 {
		t.Errorf("total marks = %d, want 4 (one per question)", assessment.TotalMarks)
	}
	if assessment.Duration != 20 {
		t.Errorf("duration = %d, want 20", assessment.Duration)
	}

	var refs int64
	if err := db.Model(&models.AssessmentQuestion{}).Where("assessment_id = ?", assessment.ID).Count(&refs).Error; err != nil {
		t.Fatalf("count question refs: %v", err)
	}
	if refs != 4 {
		t.Errorf("question refs = %d, want 4", refs)
	}
}

func TestGenerateRandomDefaultDuration(t *testing.T) {
	db := setupTestDB(t)
	folderID := seedFolderQuestions(t, db, 3)
	app := newTestApp(uuid.New(), models.RoleStudent)

	resp, _ := request(t, app, http.MethodPost, "/assessments/random", fiber.Map{
		"folder_id": folderID, "number_of_questions": 2,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var assessment models.Assessment
	if err := db.Where("assessment_type = ?", models.AssessmentTypeRandom).First(&assessment).Error; err != nil {
		t.Fatalf("load generated assessment: %v", err)
	}
	if assessment.Duration != defaultRandomDuration {
		t.Errorf("duration = %d, want default %d", assessment.Duration, defaultRandomDuration)
	}
}

func TestGetAssessmentByIDEnforcesVisibility(t *testing.T) {
	db := setupTestDB(t)
	invitedID := uuid.New()
	outsiderID := uuid.New()

	restricted := models.Assessment{
		ID: uuid.New(), Title: "Restricted", CompanyName: "Acme", Duration: 30,
		TotalMarks: 5, IsActive: true,
		AssessmentType: models.AssessmentTypeScheduled, CreatedBy: uuid.New(),
	}
	if err := db.Create(&restricted).Error; err != nil {
		t.Fatalf("seed assessment: %v", err)
	}
	membership := models.AssessmentStudent{AssessmentID: restricted.ID, StudentID: invitedID}
	if err := db.Create(&membership).Error; err != nil {
		t.Fatalf("seed membership: %v", err)
	}

	tests := []struct {
		name string
		id   uuid.UUID
		role string
		want int
	}{
		{"uninvited student blocked", outsiderID, models.RoleStudent, http.StatusForbidden},
		{"invited student allowed", invitedID, models.RoleStudent, http.StatusOK},
		{"mentor allowed", outsiderID, models.RoleMentor, http.StatusOK},
		{"admin allowed", outsiderID, models.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(tt.id, tt.role)
			resp, _ := request(t, app, http.MethodGet, "/assessments/"+restricted.ID.String(), nil)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestGetAssessmentByIDNotFound(t *testing.T) {
	setupTestDB(t)
	app := newTestApp(uuid.New(), models.RoleAdmin)

	resp, _ := request(t, app, http.MethodGet, "/assessments/"+uuid.New().String(), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
