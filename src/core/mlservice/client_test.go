package mlservice

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateQuestionsSendsResume(t *testing.T) {
	const resumeBody = "Jane Doe - 3 years Go, Postgres, Kubernetes"

	var (
		gotJobDescription string
		gotDuration       string
		gotResumeName     string
		gotResumeContent  string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate-questions" {
			t.Errorf("path = %s, want /api/generate-questions", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		gotJobDescription = r.FormValue("job_description")
		gotDuration = r.FormValue("duration_seconds")

		resume, header, err := r.FormFile("resume")
		if err != nil {
			t.Errorf("resume file missing: %v", err)
		} else {
			content, _ := io.ReadAll(resume)
			resume.Close()
			gotResumeName = header.Filename
			gotResumeContent = string(content)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"questions": []InterviewQuestion{
				{ID: "q1", Text: "Tell me about your Go experience."},
			},
			"resume_text": resumeBody,
		})
	}))
	defer server.Close()
	t.Setenv("ML_SERVICE_URL", server.URL)

	questions, resumeText, err := GenerateQuestions("Backend engineer", 600, "resume.pdf", strings.NewReader(resumeBody))
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}

	if gotJobDescription != "Backend engineer" {
		t.Errorf("job_description = %q, want %q", gotJobDescription, "Backend engineer")
	}
	if gotDuration != "600" {
		t.Errorf("duration_seconds = %q, want %q", gotDuration, "600")
	}
	if gotResumeName != "resume.pdf" {
		t.Errorf("resume filename = %q, want %q", gotResumeName, "resume.pdf")
	}
	if gotResumeContent != resumeBody {
		t.Errorf("resume content = %q, want %q", gotResumeContent, resumeBody)
	}

	if len(questions) != 1 || questions[0].ID != "q1" {
		t.Errorf("questions = %+v, want the single generated question", questions)
	}
	if resumeText != resumeBody {
		t.Errorf("resume text = %q, want %q", resumeText, resumeBody)
	}
}

func TestGenerateQuestionsServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()
	t.Setenv("ML_SERVICE_URL", server.URL)

	if _, _, err := GenerateQuestions("Backend engineer", 600, "resume.pdf", strings.NewReader("x")); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
