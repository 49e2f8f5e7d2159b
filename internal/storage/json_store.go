package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitual/internal/models"
)

type JSONStore struct {
	path string
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	return s.Save(models.EmptyDocument())
}

// Load reads the whole document. A missing file is an empty document.
func (s *JSONStore) Load() (models.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.EmptyDocument(), nil
		}
		return models.Document{}, fmt.Errorf("%w: failed to read storage: %v", ErrStorageUnavailable, err)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.Document{}, fmt.Errorf("%w: failed to parse storage: %v", ErrStorageUnavailable, err)
	}

	// Ensure the slice is initialized so it encodes as []
	if doc.Habits == nil {
		doc.Habits = []models.Record{}
	}

	return doc, nil
}

// Save overwrites the file with doc. The write is not atomic.
func (s *JSONStore) Save(doc models.Document) error {
	if doc.Habits == nil {
		doc.Habits = []models.Record{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("%w: failed to create config directory: %v", ErrStorageUnavailable, err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("%w: failed to write storage: %v", ErrStorageUnavailable, err)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
