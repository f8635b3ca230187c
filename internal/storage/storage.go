// internal/storage/storage.go
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Storage is the only interface the asset handler depends on.
// The implementation is picked in main.go from STORAGE_TYPE.
type Storage interface {
	Upload(ctx context.Context, file io.Reader, filename string, contentType string) (string, error)
}

// ── Local Storage ─────────────────────────────────────────────────────────────

type LocalStorage struct {
	UploadDir string
	BaseURL   string // e.g. "http://localhost:8083"
}

func NewLocalStorage(uploadDir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStorage{UploadDir: uploadDir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStorage) Upload(_ context.Context, file io.Reader, filename string, contentType string) (string, error) {
	// uuid names: no path traversal, no collisions, no leaked client filenames
	safeFilename := objectName(filename)

	dst, err := os.Create(filepath.Join(s.UploadDir, safeFilename))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return fmt.Sprintf("%s/uploads/%s", s.BaseURL, safeFilename), nil
}

func objectName(filename string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(filename))
}
