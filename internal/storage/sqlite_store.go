package storage

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/migration"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/migrations"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}
	return s.open()
}

// open connects and migrates the database on first use
func (s *SQLiteStore) open() error {
	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("%w: failed to create config directory: %v", ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("%w: failed to open database: %v", ErrStorageUnavailable, err)
	}
	// A single connection keeps writes from racing each other on one file
	db.SetMaxOpenConns(1)
	s.db = db

	if err := s.runMigrations(); err != nil {
		s.db.Close()
		s.db = nil
		return fmt.Errorf("%w: failed to run migrations: %v", ErrStorageUnavailable, err)
	}

	return nil
}

func (s *SQLiteStore) runner() (*migration.Runner, error) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, err
	}
	return migration.NewRunner(s.db, sub, migration.DialectSQLite), nil
}

func (s *SQLiteStore) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	applied, err := runner.ApplyMigrations(func(msg string) {
		logger.Info(msg, "store", s.path)
	})
	if applied > 0 {
		logger.Debug("Applied migrations", "count", applied, "store", s.path)
	}
	return err
}

// Load reads the whole document. A database that does not exist yet is an
// empty document and is not created.
func (s *SQLiteStore) Load() (models.Document, error) {
	if s.db == nil {
		if _, err := os.Stat(s.path); os.IsNotExist(err) {
			return models.EmptyDocument(), nil
		}
	}
	if err := s.open(); err != nil {
		return models.Document{}, err
	}
	return loadRecords(s.db)
}

// Save replaces every stored habit with doc
func (s *SQLiteStore) Save(doc models.Document) error {
	if err := s.open(); err != nil {
		return err
	}
	return saveRecords(s.db, migration.DialectSQLite, doc)
}

func (s *SQLiteStore) SchemaVersion() (int, int, error) {
	if err := s.open(); err != nil {
		return 0, 0, err
	}
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	current, err := runner.GetCurrentVersion()
	if err != nil {
		return 0, 0, err
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

// DB exposes the open connection for backups. Nil before first use.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}
