// Package mlservice is the HTTP client for the external ML service that owns
// OCR parsing, interview question generation, transcription and answer
// analysis. This backend never runs models itself.
package mlservice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/zyntratech-upendra/placements/src/core/config"
)

const defaultBaseURL = "http://localhost:8000"

// ParsedQuestion is one question extracted from an uploaded document.
type ParsedQuestion struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
	Section string   `json:"section"`
}

type parseDocumentResponse struct {
	Success        bool             `json:"success"`
	Error          string           `json:"error"`
	Questions      []ParsedQuestion `json:"questions"`
	TotalExtracted int              `json:"total_extracted"`
	TotalValid     int              `json:"total_valid"`
}

// InterviewQuestion is one generated interview question.
type InterviewQuestion struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func baseURL() string {
	if url := config.Config("ML_SERVICE_URL"); url != "" {
		return url
	}
	return defaultBaseURL
}

func postMultipart(url string, fields map[string]string, fieldName, fileName string, content io.Reader, timeout time.Duration) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write multipart field: %w", err)
		}
	}

	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to copy file content: %w", err)
	}
	writer.Close()

	req, err := http.NewRequest("POST", url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ML service returned %s: %s", resp.Status, string(respBody))
	}
	return respBody, nil
}

// ParseDocument sends a stored document to the OCR endpoint and returns the
// extracted questions. The filename matters: the service uses its extension
// to pick a parser.
func ParseDocument(fileName string, content io.Reader) ([]ParsedQuestion, int, int, error) {
	respBody, err := postMultipart(baseURL()+"/api/parse-document", nil, "file", fileName, content, 60*time.Second)
	if err != nil {
		return nil, 0, 0, err
	}

	var parsed parseDocumentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode OCR response: %w", err)
	}
	if !parsed.Success {
		if parsed.Error == "" {
			parsed.Error = "OCR processing failed"
		}
		return nil, 0, 0, fmt.Errorf("%s", parsed.Error)
	}
	return parsed.Questions, parsed.TotalExtracted, parsed.TotalValid, nil
}

// GenerateQuestions asks the ML service for interview questions tailored to a
// job description and resume. The resume file goes along as multipart; the
// service extracts its text and returns it so the caller can keep it for
// answer analysis.
func GenerateQuestions(jobDescription string, durationSeconds int, resumeName string, resume io.Reader) ([]InterviewQuestion, string, error) {
	fields := map[string]string{
		"job_description":  jobDescription,
		"duration_seconds": strconv.Itoa(durationSeconds),
	}
	respBody, err := postMultipart(baseURL()+"/api/generate-questions", fields, "resume", resumeName, resume, 60*time.Second)
	if err != nil {
		return nil, "", err
	}

	var decoded struct {
		Questions  []InterviewQuestion `json:"questions"`
		ResumeText string              `json:"resume_text"`
	}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, "", fmt.Errorf("failed to decode questions response: %w", err)
	}
	return decoded.Questions, decoded.ResumeText, nil
}

// Transcribe sends an audio answer for speech-to-text. Transcription failures
// are reported to the caller, who may choose to keep the audio anyway.
func Transcribe(fileName string, content io.Reader) (string, error) {
	respBody, err := postMultipart(baseURL()+"/api/transcribe", nil, "audio", fileName, content, 60*time.Second)
	if err != nil {
		return "", err
	}

	var decoded struct {
		Transcript string `json:"transcript"`
	}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}
	return decoded.Transcript, nil
}

// AnswerEvaluation is the per-answer result of session analysis.
type AnswerEvaluation struct {
	QuestionID string  `json:"question_id"`
	Score      float64 `json:"score"`
	Feedback   string  `json:"feedback"`
}

// AnalyzeSession asks the ML service to score every transcribed answer of an
// interview session.
func AnalyzeSession(sessionID string) ([]AnswerEvaluation, error) {
	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Post(baseURL()+"/api/analyze/"+sessionID, "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ML service returned %s: %s", resp.Status, string(respBody))
	}

	var decoded struct {
		Evaluations []AnswerEvaluation `json:"evaluations"`
	}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}
	return decoded.Evaluations, nil
}
