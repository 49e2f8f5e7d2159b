package storage

import (
	"errors"

	"github.com/julianstephens/habitual/internal/models"
)

// ErrStorageUnavailable wraps any failure to read or write the underlying store
var ErrStorageUnavailable = errors.New("storage unavailable")

// Provider persists the habit document as a whole. Load returns the entire
// document and Save replaces it.
type Provider interface {
	// Lifecycle
	Init() error
	Close() error

	// Document
	Load() (models.Document, error)
	Save(models.Document) error

	// Utils
	GetConfigPath() string
}

// Versioned is implemented by providers backed by a migrated SQL schema
type Versioned interface {
	SchemaVersion() (current int, latest int, err error)
}
