package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/julianstephens/habitual/internal/models"
)

func setupSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "habits.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreInit(t *testing.T) {
	store := setupSQLiteStore(t)

	if _, err := os.Stat(store.GetConfigPath()); err != nil {
		t.Fatalf("database file not created: %v", err)
	}

	current, latest, err := store.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() error: %v", err)
	}
	if current != latest || latest < 1 {
		t.Errorf("SchemaVersion() = %d/%d, want fully migrated", current, latest)
	}

	store.Close()
	if err := NewSQLiteStore(store.GetConfigPath()).Init(); err == nil {
		t.Error("Init() on an existing database should fail")
	}
}

func TestSQLiteStoreLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.db")
	store := NewSQLiteStore(path)
	defer store.Close()

	doc, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if doc.Habits == nil || len(doc.Habits) != 0 {
		t.Errorf("Load() = %+v, want empty", doc)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Load() should not create the database")
	}
}

func TestSQLiteStoreSaveLoad(t *testing.T) {
	store := setupSQLiteStore(t)

	want := sampleDocument()
	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestSQLiteStoreSaveReplaces(t *testing.T) {
	store := setupSQLiteStore(t)

	if err := store.Save(sampleDocument()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	smaller := models.Document{Habits: sampleDocument().Habits[2:]}
	if err := store.Save(smaller); err != nil {
		t.Fatalf("second Save() error: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got.Habits) != 1 || got.Habits[0].Name != "Budget" {
		t.Errorf("Load() = %+v, want only Budget", got.Habits)
	}
}

func TestSQLiteStorePreservesOrder(t *testing.T) {
	store := setupSQLiteStore(t)

	// Ids deliberately out of order; storage order is insertion order
	doc := models.Document{Habits: []models.Record{
		{ID: intPtr(9), Name: "c", Deadline: "2024-01-01", Frequency: "Daily"},
		{ID: intPtr(2), Name: "a", Deadline: "2024-01-01", Frequency: "Daily"},
		{ID: intPtr(5), Name: "b", Deadline: "2024-01-01", Frequency: "Daily"},
	}}
	if err := store.Save(doc); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	var names []string
	for _, rec := range got.Habits {
		names = append(names, rec.Name)
	}
	if !reflect.DeepEqual(names, []string{"c", "a", "b"}) {
		t.Errorf("Load() order = %v, want [c a b]", names)
	}
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits.db")

	first := NewSQLiteStore(path)
	if err := first.Save(sampleDocument()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	first.Close()

	second := NewSQLiteStore(path)
	defer second.Close()
	got, err := second.Load()
	if err != nil {
		t.Fatalf("Load() after reopen error: %v", err)
	}
	if len(got.Habits) != len(sampleDocument().Habits) {
		t.Errorf("Load() after reopen = %d habits, want %d", len(got.Habits), len(sampleDocument().Habits))
	}
}
