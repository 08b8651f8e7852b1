package database

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	storage_go "github.com/supabase-community/storage-go"
)

// SupabaseStorage initializes the storage client and bucket name
func SupabaseStorage() (*storage_go.Client, string, error) {
	projectReferenceID := os.Getenv("SUPABASE_URL")
	projectSecretAPIKey := os.Getenv("SUPABASE_KEY")
	bucketName := os.Getenv("BUCKET_NAME")

	if projectReferenceID == "" || projectSecretAPIKey == "" || bucketName == "" {
		return nil, "", errors.New("missing SUPABASE_URL, SUPABASE_KEY, or BUCKET_NAME in environment variables")
	}

	storageClient := storage_go.NewClient(projectReferenceID+"/storage/v1", projectSecretAPIKey, nil)
	return storageClient, bucketName, nil
}

// UploadObject pushes a file into the Supabase bucket under objectPath
// (e.g. "documents/<uuid>-report.pdf") and returns the public URL.
func UploadObject(objectPath string, fileContent io.Reader) (string, error) {
	bucketName := os.Getenv("BUCKET_NAME")
	apiURL := os.Getenv("STORAGE_URL")
	authToken := "Bearer " + os.Getenv("SERVICE_ROLE_SECRET")

	if apiURL == "" || bucketName == "" {
		return "", fmt.Errorf("STORAGE_URL or BUCKET_NAME is not set in the environment variables")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", objectPath)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart file: %w", err)
	}
	if _, err = io.Copy(part, fileContent); err != nil {
		return "", fmt.Errorf("failed to copy file content: %w", err)
	}
	writer.Close()

	requestURL := fmt.Sprintf("%s/object/%s/%s", apiURL, bucketName, objectPath)

	req, err := http.NewRequest("POST", requestURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", authToken)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		fmt.Println("Upload failed. Response Body:", string(respBody))
		return "", fmt.Errorf("upload failed with status: %s", resp.Status)
	}

	publicURL := fmt.Sprintf("%s/object/public/%s/%s", apiURL, bucketName, objectPath)
	return publicURL, nil
}

// RemoveObject deletes a stored object. Missing objects are not treated as
// errors so a delete request stays idempotent.
func RemoveObject(objectPath string) error {
	storageClient, bucketName, err := SupabaseStorage()
	if err != nil {
		return err
	}
	_, err = storageClient.RemoveFile(bucketName, []string{objectPath})
	return err
}
