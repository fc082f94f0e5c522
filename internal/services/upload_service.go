package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadResult is returned to the order form after a successful upload. Key
// is what checkout sends back; URL is where the file can be fetched.
type UploadResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// UploadService stores customer design files and hands out reference keys.
type UploadService struct {
	dir string
}

// NewUploadService creates the upload directory if needed and returns a service over it.
func NewUploadService(dir string) (*UploadService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &UploadService{dir: dir}, nil
}

// Save stores the uploaded content under a unique key derived from the
// original filename.
func (s *UploadService) Save(filename string, content io.Reader) (*UploadResult, error) {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid filename: %q", filename)
	}

	key := uuid.New().String() + "_" + base
	dst, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, content)
	if err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	if written == 0 {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("uploaded file %s is empty", base)
	}

	return &UploadResult{
		Key: key,
		URL: "/files/" + key,
	}, nil
}

// Open returns a reader for a previously stored file. Keys containing path
// separators are rejected.
func (s *UploadService) Open(key string) (io.ReadCloser, error) {
	if key == "" || key != filepath.Base(key) {
		return nil, fmt.Errorf("invalid file key: %q", key)
	}
	f, err := os.Open(filepath.Join(s.dir, key))
	if err != nil {
		return nil, fmt.Errorf("file with key %s not found", key)
	}
	return f, nil
}
