package repository

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/julianstephens/habitual/internal/analyzer"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

func newTestRepo(t *testing.T, today string) (*Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habits_db.json")
	repo := New(storage.NewJSONStore(path), utils.ClockAt(today))
	if err := repo.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return repo, path
}

func mustAdd(t *testing.T, repo *Repository, name string, days int, freq models.Frequency) models.Habit {
	t.Helper()
	h, err := repo.Add(name, days, freq)
	if err != nil {
		t.Fatalf("Add(%q) error: %v", name, err)
	}
	return h
}

func ids(habits []models.Habit) []int {
	out := []int{}
	for _, h := range habits {
		out = append(out, h.ID)
	}
	return out
}

// failingStore fails reads and writes with the given errors
type failingStore struct {
	loadErr error
	saveErr error
}

func (s *failingStore) Init() error { return nil }
func (s *failingStore) Close() error { return nil }
func (s *failingStore) GetConfigPath() string { return "failing" }
func (s *failingStore) Save(models.Document) error { return s.saveErr }
func (s *failingStore) Load() (models.Document, error) { return models.Document{}, s.loadErr }

func TestAddAssignsFieldsAndIDs(t *testing.T) {
	repo, _ := newTestRepo(t, "2024-03-10")

	h := mustAdd(t, repo, "Read", 5, models.FrequencyDaily)
	want := models.Habit{
		ID: 1, Name: "Read", StartDate: "2024-03-10", DurationInDays: 5,
		Deadline: "2024-03-15", Frequency: models.FrequencyDaily,
	}
	if !reflect.DeepEqual(h, want) {
		t.Errorf("Add() = %+v, want %+v", h, want)
	}

	mustAdd(t, repo, "Walk", 1, models.FrequencyWeekly)
	mustAdd(t, repo, "Budget", 30, models.FrequencyMonthly)
	if got := ids(repo.List()); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("ids = %v, want [1 2 3]", got)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	repo, path := newTestRepo(t, "2024-03-10")

	tests := []struct {
		name string
		hab  string
		days int
		freq models.Frequency
	}{
		{name: "empty name", hab: " ", days: 1, freq: models.FrequencyDaily},
		{name: "negative days", hab: "Read", days: -1, freq: models.FrequencyDaily},
		{name: "unknown frequency", hab: "Read", days: 1, freq: "Hourly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := repo.Add(tt.hab, tt.days, tt.freq); !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("Add() error = %v, want %v", err, models.ErrInvalidInput)
			}
		})
	}

	if len(repo.List()) != 0 {
		t.Errorf("rejected habits were added: %+v", repo.List())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("rejected Add() should not write the store")
	}
}

func TestDeleteDoesNotReuseID(t *testing.T) {
	repo, _ := newTestRepo(t, "2024-03-10")
	for _, name := range []string{"a", "b", "c"} {
		mustAdd(t, repo, name, 1, models.FrequencyDaily)
	}

	removed, err := repo.Delete(2)
	if err != nil {
		t.Fatalf("Delete(2) error: %v", err)
	}
	if removed.Name != "b" {
		t.Errorf("Delete(2) removed %q, want b", removed.Name)
	}

	h := mustAdd(t, repo, "d", 1, models.FrequencyDaily)
	if h.ID != 4 {
		t.Errorf("Add() after delete id = %d, want 4", h.ID)
	}
	if got := ids(repo.List()); !reflect.DeepEqual(got, []int{1, 3, 4}) {
		t.Errorf("ids = %v, want [1 3 4]", got)
	}
}

func TestDeleteHighestDoesNotReuseID(t *testing.T) {
	repo, _ := newTestRepo(t, "2024-03-10")
	mustAdd(t, repo, "a", 1, models.FrequencyDaily)
	mustAdd(t, repo, "b", 1, models.FrequencyDaily)

	if _, err := repo.Delete(2); err != nil {
		t.Fatalf("Delete(2) error: %v", err)
	}
	if h := mustAdd(t, repo, "c", 1, models.FrequencyDaily); h.ID != 3 {
		t.Errorf("Add() after deleting the highest id = %d, want 3", h.ID)
	}
}

func TestNotFound(t *testing.T) {
	repo, _ := newTestRepo(t, "2024-03-10")
	mustAdd(t, repo, "a", 1, models.FrequencyDaily)

	if _, err := repo.Complete(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Complete(99) error = %v, want %v", err, ErrNotFound)
	}
	if _, err := repo.Delete(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(99) error = %v, want %v", err, ErrNotFound)
	}
	if _, ok := repo.Find(99); ok {
		t.Error("Find(99) reported a habit")
	}
	if len(repo.List()) != 1 {
		t.Errorf("List() = %d habits, want 1", len(repo.List()))
	}
}

func TestCompleteRefreshesDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits_db.json")
	store := storage.NewJSONStore(path)

	day1 := New(store, utils.ClockAt("2024-03-10"))
	if err := day1.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	mustAdd(t, day1, "Read", 3, models.FrequencyDaily)
	h, err := day1.Complete(1)
	if err != nil {
		t.Fatalf("Complete(1) error: %v", err)
	}
	if !h.Completed || h.CompletedDate != "2024-03-10" {
		t.Errorf("Complete(1) = %+v, want completed on 2024-03-10", h)
	}

	day2 := New(store, utils.ClockAt("2024-03-12"))
	if err := day2.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	h, err = day2.Complete(1)
	if err != nil {
		t.Fatalf("second Complete(1) error: %v", err)
	}
	if h.CompletedDate != "2024-03-12" {
		t.Errorf("re-completion date = %q, want 2024-03-12", h.CompletedDate)
	}
	if h.Deadline != "2024-03-13" {
		t.Errorf("deadline changed to %q", h.Deadline)
	}
}

func TestListByFrequency(t *testing.T) {
	repo, _ := newTestRepo(t, "2024-03-10")
	mustAdd(t, repo, "a", 1, models.FrequencyDaily)
	mustAdd(t, repo, "b", 1, models.FrequencyWeekly)
	mustAdd(t, repo, "c", 1, models.FrequencyDaily)

	tests := []struct {
		freq models.Frequency
		want []int
	}{
		{freq: models.FrequencyDaily, want: []int{1, 3}},
		{freq: models.FrequencyWeekly, want: []int{2}},
		{freq: models.FrequencyMonthly, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			if got := ids(repo.ListByFrequency(tt.freq)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ListByFrequency(%s) = %v, want %v", tt.freq, got, tt.want)
			}
		})
	}
}

func TestPersistence(t *testing.T) {
	repo, path := newTestRepo(t, "2024-03-10")
	mustAdd(t, repo, "a", 1, models.FrequencyDaily)
	mustAdd(t, repo, "b", 7, models.FrequencyWeekly)
	if _, err := repo.Complete(2); err != nil {
		t.Fatalf("Complete(2) error: %v", err)
	}

	reloaded := New(storage.NewJSONStore(path), utils.ClockAt("2024-03-10"))
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(reloaded.List(), repo.List()) {
		t.Errorf("reloaded = %+v, want %+v", reloaded.List(), repo.List())
	}

	// The next id continues from the stored maximum
	if h := mustAdd(t, reloaded, "c", 1, models.FrequencyDaily); h.ID != 3 {
		t.Errorf("Add() after reload id = %d, want 3", h.ID)
	}
}

func TestLoadLegacyNullIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits_db.json")
	legacy := `{"habits": [
  {"id": null, "name": "Old", "start_date": null, "duration_in_days": 2, "deadline": "2024-01-03",
   "frequency": "Daily", "completed": false, "timeout": true, "completed_date": null},
  {"id": 4, "name": "Newer", "start_date": "2024-01-01", "duration_in_days": 2, "deadline": "2024-01-03",
   "frequency": "Weekly", "completed": false, "timeout": null, "completed_date": null}
]}`
	if err := os.WriteFile(path, []byte(legacy), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	repo := New(storage.NewJSONStore(path), utils.ClockAt("2024-03-10"))
	if err := repo.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if h := mustAdd(t, repo, "Fresh", 1, models.FrequencyDaily); h.ID != 5 {
		t.Errorf("Add() id = %d, want 5", h.ID)
	}

	// The legacy timeout flag survives a rewrite untouched
	doc := repo.Document()
	if doc.Habits[0].Timeout == nil || !*doc.Habits[0].Timeout {
		t.Errorf("legacy timeout = %v, want true", doc.Habits[0].Timeout)
	}
	if doc.Habits[0].ID != nil {
		t.Errorf("legacy id = %v, want null", *doc.Habits[0].ID)
	}
}

func TestLegacyNullIDNeverMatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits_db.json")
	legacy := `{"habits": [
  {"id": null, "name": "Old", "start_date": null, "duration_in_days": 2, "deadline": "2024-01-03",
   "frequency": "Daily", "completed": false, "timeout": null, "completed_date": null},
  {"id": null, "name": "Older", "start_date": null, "duration_in_days": 1, "deadline": "2024-01-02",
   "frequency": "Daily", "completed": false, "timeout": null, "completed_date": null}
]}`
	if err := os.WriteFile(path, []byte(legacy), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	repo := New(storage.NewJSONStore(path), utils.ClockAt("2024-03-10"))
	if err := repo.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if _, ok := repo.Find(0); ok {
		t.Error("Find(0) matched a habit without id")
	}
	if _, err := repo.Complete(0); !errors.Is(err, ErrNotFound) {
		t.Errorf("Complete(0) error = %v, want %v", err, ErrNotFound)
	}
	if _, err := repo.Delete(0); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(0) error = %v, want %v", err, ErrNotFound)
	}

	habits := repo.List()
	if len(habits) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(habits))
	}
	for _, h := range habits {
		if h.Completed {
			t.Errorf("legacy habit %q was completed", h.Name)
		}
	}
}

func TestDeleteRemovesDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits_db.json")
	edited := `{"habits": [
  {"id": 3, "name": "Read", "start_date": "2024-01-01", "duration_in_days": 1, "deadline": "2024-01-02",
   "frequency": "Daily", "completed": false, "timeout": null, "completed_date": null},
  {"id": 4, "name": "Walk", "start_date": "2024-01-01", "duration_in_days": 1, "deadline": "2024-01-02",
   "frequency": "Daily", "completed": false, "timeout": null, "completed_date": null},
  {"id": 3, "name": "Read copy", "start_date": "2024-01-01", "duration_in_days": 1, "deadline": "2024-01-02",
   "frequency": "Daily", "completed": false, "timeout": null, "completed_date": null}
]}`
	if err := os.WriteFile(path, []byte(edited), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	repo := New(storage.NewJSONStore(path), utils.ClockAt("2024-03-10"))
	if err := repo.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	removed, err := repo.Delete(3)
	if err != nil {
		t.Fatalf("Delete(3) error: %v", err)
	}
	if removed.Name != "Read" {
		t.Errorf("Delete(3) returned %q, want %q", removed.Name, "Read")
	}
	if got := ids(repo.List()); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("ids after delete = %v, want [4]", got)
	}
}

func TestFailedSaveLeavesHabitsUnchanged(t *testing.T) {
	store := &failingStore{}
	repo := New(store, utils.ClockAt("2024-03-10"))
	if err := repo.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	mustAdd(t, repo, "Read", 1, models.FrequencyDaily)
	mustAdd(t, repo, "Walk", 2, models.FrequencyWeekly)
	before := repo.List()

	saveErr := errors.New("disk full")
	store.saveErr = saveErr

	if _, err := repo.Add("Run", 1, models.FrequencyDaily); !errors.Is(err, saveErr) {
		t.Errorf("Add() error = %v, want %v", err, saveErr)
	}
	if _, err := repo.Complete(1); !errors.Is(err, saveErr) {
		t.Errorf("Complete() error = %v, want %v", err, saveErr)
	}
	if _, err := repo.Delete(2); !errors.Is(err, saveErr) {
		t.Errorf("Delete() error = %v, want %v", err, saveErr)
	}

	if got := repo.List(); !reflect.DeepEqual(got, before) {
		t.Errorf("List() after failed saves = %+v, want %+v", got, before)
	}

	// the failed add did not consume an id
	store.saveErr = nil
	if h := mustAdd(t, repo, "Run", 1, models.FrequencyDaily); h.ID != 3 {
		t.Errorf("Add() id = %d, want 3", h.ID)
	}
}

func TestLoadUnreadableStoreStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits_db.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	repo := New(storage.NewJSONStore(path), utils.ClockAt("2024-03-10"))
	if err := repo.Load(); err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if len(repo.List()) != 0 {
		t.Errorf("List() = %+v, want empty", repo.List())
	}
}

func TestLoadPropagatesOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	repo := New(&failingStore{loadErr: boom}, utils.ClockAt("2024-03-10"))

	if err := repo.Load(); !errors.Is(err, boom) {
		t.Errorf("Load() error = %v, want %v", err, boom)
	}
}

func TestSaveErrorPropagates(t *testing.T) {
	saveErr := errors.New("disk full")
	repo := New(&failingStore{saveErr: saveErr}, utils.ClockAt("2024-03-10"))
	if err := repo.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if _, err := repo.Add("Read", 1, models.FrequencyDaily); !errors.Is(err, saveErr) {
		t.Errorf("Add() error = %v, want %v", err, saveErr)
	}
}

func TestUrgentAndOutdated(t *testing.T) {
	repo, _ := newTestRepo(t, "2024-03-10")
	mustAdd(t, repo, "due today", 0, models.FrequencyDaily)
	mustAdd(t, repo, "due today done", 0, models.FrequencyDaily)
	mustAdd(t, repo, "due later", 3, models.FrequencyDaily)
	if _, err := repo.Complete(2); err != nil {
		t.Fatalf("Complete(2) error: %v", err)
	}

	if got := ids(repo.Urgent()); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("Urgent() = %v, want [1]", got)
	}
	if got := ids(repo.Outdated()); !reflect.DeepEqual(got, []int{}) {
		t.Errorf("Outdated() today = %v, want []", got)
	}

	later := New(repo.Store(), utils.ClockAt("2024-03-11"))
	if err := later.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := ids(later.Outdated()); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("Outdated() next day = %v, want [1]", got)
	}
	if got := ids(later.Urgent()); !reflect.DeepEqual(got, []int{}) {
		t.Errorf("Urgent() next day = %v, want []", got)
	}
}

func TestLongestStreakAcrossDays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habits_db.json")
	store := storage.NewJSONStore(path)

	empty := New(store, utils.ClockAt("2024-01-01"))
	if err := empty.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := empty.LongestStreak(); got.Kind != analyzer.StreakNoHabits {
		t.Errorf("LongestStreak() on empty = %+v, want no habits", got)
	}

	// One "Read" habit added and completed on each of three consecutive days
	for _, day := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		repo := New(store, utils.ClockAt(day))
		if err := repo.Load(); err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		h := mustAdd(t, repo, "Read", 1, models.FrequencyDaily)
		if _, err := repo.Complete(h.ID); err != nil {
			t.Fatalf("Complete(%d) error: %v", h.ID, err)
		}
	}

	repo := New(store, utils.ClockAt("2024-01-04"))
	if err := repo.Load(); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := analyzer.StreakResult{Kind: analyzer.StreakFound, Name: "Read", Length: 3}
	if got := repo.LongestStreak(); got != want {
		t.Errorf("LongestStreak() = %+v, want %+v", got, want)
	}
	if streaks := repo.Streaks(); len(streaks) != 1 || streaks[0].Length != 3 {
		t.Errorf("Streaks() = %+v, want one streak of 3", streaks)
	}
}
