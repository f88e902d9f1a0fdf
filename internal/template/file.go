package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/weekrep/weekrep/pkg/models"
)

// FileRepository persists the template set as one JSON array in a single
// file, the canonical storage shape. Writes are atomic (temp file + rename).
type FileRepository struct {
	path string
}

// NewFileRepository returns a repository backed by the given file path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// DefaultPath returns the default template store location (~/.weekrep/templates.json).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".weekrep", "templates.json"), nil
}

// Load reads the persisted template array. A missing file is an empty store.
func (r *FileRepository) Load() ([]models.ReportTemplate, error) {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return []models.ReportTemplate{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template store %s: %w", r.path, err)
	}

	var templates []models.ReportTemplate
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("corrupt template store %s: %w", r.path, err)
	}
	return templates, nil
}

// Save atomically replaces the persisted template array.
func (r *FileRepository) Save(templates []models.ReportTemplate) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("failed to create template store directory: %w", err)
	}

	data, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal templates: %w", err)
	}

	if err := atomic.WriteFile(r.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write template store %s: %w", r.path, err)
	}
	return nil
}
