package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	storage_go "github.com/supabase-community/storage-go"
)

// MaxImageSize is the upload ceiling for event images (5MB).
const MaxImageSize = 5 * 1024 * 1024

// ImageStore uploads event images to Supabase storage and serves as the
// single owner of the bucket handle. Constructed once in main and injected
// into the handlers that need it.
type ImageStore struct {
	client *storage_go.Client
	bucket string
}

func NewImageStore(client *storage_go.Client, bucket string) *ImageStore {
	return &ImageStore{client: client, bucket: bucket}
}

// ValidateImage rejects files that are not images or exceed the size ceiling.
func ValidateImage(file *multipart.FileHeader) error {
	if file.Size > MaxImageSize {
		return fmt.Errorf("image exceeds the %dMB size limit", MaxImageSize/(1024*1024))
	}

	fileBody, err := file.Open()
	if err != nil {
		return err
	}
	defer fileBody.Close()

	// DetectContentType only needs the first 512 bytes
	head := make([]byte, 512)
	n, err := fileBody.Read(head)
	if err != nil && err != io.EOF {
		return err
	}

	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("unsupported content type %q, expected an image", contentType)
	}
	return nil
}

// Upload streams the file to the bucket under the given folder and returns
// the public URL along with the object path for later replacement or cleanup.
func (s *ImageStore) Upload(file *multipart.FileHeader, folder string) (string, string, error) {
	fileBody, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer fileBody.Close()

	fileBytes, err := io.ReadAll(fileBody)
	if err != nil {
		return "", "", err
	}

	if _, err := fileBody.Seek(0, io.SeekStart); err != nil {
		return "", "", err
	}

	contentType := http.DetectContentType(fileBytes)

	// Generate a unique file name using timestamp
	timestamp := time.Now().UnixNano()
	ext := filepath.Ext(file.Filename)
	baseName := strings.TrimSuffix(file.Filename, ext)
	uniqueFileName := fmt.Sprintf("%s_%d%s", baseName, timestamp, ext)

	objectPath := fmt.Sprintf("%s/%s", folder, uniqueFileName)

	if _, err := s.client.UploadFile(s.bucket, objectPath, fileBody, storage_go.FileOptions{ContentType: &contentType}); err != nil {
		return "", "", fmt.Errorf("failed to upload file: %w", err)
	}

	response := s.client.GetPublicUrl(s.bucket, objectPath)
	return response.SignedURL, objectPath, nil
}

// Remove deletes a previously uploaded object given its path.
func (s *ImageStore) Remove(objectPath string) error {
	if objectPath == "" {
		return nil
	}
	if _, err := s.client.RemoveFile(s.bucket, []string{objectPath}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// RemoveDuplicates removes duplicate values from a slice of strings.
func RemoveDuplicates(slice []string) []string {
	seen := make(map[string]bool)
	result := []string{}

	for _, val := range slice {
		if _, ok := seen[val]; !ok {
			seen[val] = true
			result = append(result, val)
		}
	}

	return result
}
