package tui

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/repository"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

func setupModel(t *testing.T) (Model, *repository.Repository) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "habits.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	repo := repository.New(store, utils.ClockAt("2025-03-01"))
	if err := repo.Load(); err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if _, err := repo.Add("Read", 0, models.FrequencyDaily); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	if _, err := repo.Add("Run", 3, models.FrequencyWeekly); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	return NewModel(repo), repo
}

// unsavableStore loads nothing and fails every write with saveErr
type unsavableStore struct {
	saveErr error
}

func (s *unsavableStore) Init() error { return nil }
func (s *unsavableStore) Close() error { return nil }
func (s *unsavableStore) GetConfigPath() string { return "unsavable" }
func (s *unsavableStore) Save(models.Document) error { return s.saveErr }
func (s *unsavableStore) Load() (models.Document, error) { return models.Document{}, nil }

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and feeds the resulting command message back into the model
func press(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, cmd := m.Update(keyPress(s))
	m = next.(Model)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			next, _ = m.Update(msg)
			m = next.(Model)
		}
	}
	return m
}

func TestTabsFilterHabits(t *testing.T) {
	m, _ := setupModel(t)

	tests := []struct {
		tab  SessionState
		want int
	}{
		{StateAll, 2},
		{StateDaily, 1},
		{StateWeekly, 1},
		{StateMonthly, 0},
		{StateUrgent, 1},
	}

	for _, tt := range tests {
		t.Run(tabTitles[tt.tab], func(t *testing.T) {
			m.switchTab(tt.tab)
			if got := m.habitList.Len(); got != tt.want {
				t.Errorf("tab %s lists %d habits, want %d", tabTitles[tt.tab], got, tt.want)
			}
		})
	}
}

func TestTabKeyCycles(t *testing.T) {
	m, _ := setupModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(Model)
	if m.tab != StateUrgent {
		t.Errorf("shift+tab from first tab = %v, want %v", m.tab, StateUrgent)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.tab != StateAll {
		t.Errorf("tab from last tab = %v, want %v", m.tab, StateAll)
	}
}

func TestCompleteSelectedHabit(t *testing.T) {
	m, repo := setupModel(t)

	m = press(t, m, "c")

	h, _ := repo.Find(1)
	if !h.Completed || h.CompletedDate != "2025-03-01" {
		t.Errorf("habit 1 = %+v, want completed on 2025-03-01", h)
	}
	if m.status != "Habit 'Read' has been marked as completed" {
		t.Errorf("status = %q", m.status)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, repo := setupModel(t)

	m = press(t, m, "d")
	if m.state != StateConfirmDelete {
		t.Fatalf("state = %v, want confirm delete", m.state)
	}
	if !strings.Contains(m.View(), "Delete habit 'Read'?") {
		t.Errorf("confirmation view missing habit name: %q", m.View())
	}

	m = press(t, m, "n")
	if _, ok := repo.Find(1); !ok {
		t.Fatal("habit deleted after cancelling")
	}
	if m.state != StateAll {
		t.Errorf("state after cancel = %v, want %v", m.state, StateAll)
	}

	m = press(t, m, "d")
	m = press(t, m, "y")
	if _, ok := repo.Find(1); ok {
		t.Error("habit still present after confirming delete")
	}
	if m.status != "Habit 'Read' has been deleted" {
		t.Errorf("status = %q", m.status)
	}
	if m.habitList.Len() != 1 {
		t.Errorf("list length = %d, want 1", m.habitList.Len())
	}
}

func TestStreakKey(t *testing.T) {
	m, _ := setupModel(t)

	m = press(t, m, "s")
	if m.status != "There are no streaks of consecutive completed habits." {
		t.Errorf("status = %q", m.status)
	}
}

func TestSubmitHabitForm(t *testing.T) {
	m, repo := setupModel(t)

	m.habitForm = &HabitFormModel{Name: "Meditate", Days: "2", Frequency: models.FrequencyMonthly}
	if err := m.submitHabitForm(); err != nil {
		t.Fatalf("submitHabitForm() error = %v", err)
	}

	h, ok := repo.Find(3)
	if !ok {
		t.Fatal("habit 3 not added")
	}
	if h.Name != "Meditate" || h.Deadline != "2025-03-03" || h.Frequency != models.FrequencyMonthly {
		t.Errorf("added habit = %+v", h)
	}

	m.habitForm = &HabitFormModel{Name: "Bad", Days: "x", Frequency: models.FrequencyDaily}
	if err := m.submitHabitForm(); err == nil {
		t.Error("expected error for non-numeric days")
	}
}

func TestValidateDays(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"0", false},
		{" 7 ", false},
		{"-1", true},
		{"soon", true},
	}

	for _, tt := range tests {
		if err := validateDays(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("validateDays(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupModel(t)

	next, cmd := m.Update(keyPress("q"))
	if !next.(Model).quitting {
		t.Error("quitting not set")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if next.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

// pressUntilQuit sends keys in order, feeding list messages back into the
// model. It returns the model and the last command, which is left unrun
// when it quits.
func pressUntilQuit(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyPress(k))
		m = next.(Model)
		if m.quitting {
			return m, cmd
		}
		if cmd != nil {
			if msg := cmd(); msg != nil {
				next, cmd = m.Update(msg)
				m = next.(Model)
			}
		}
	}
	return m, cmd
}

func TestSaveFailureQuits(t *testing.T) {
	tests := []struct {
		name string
		keys []string
	}{
		{"complete", []string{"c"}},
		{"delete", []string{"d", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &unsavableStore{}
			repo := repository.New(store, utils.ClockAt("2025-03-01"))
			if err := repo.Load(); err != nil {
				t.Fatalf("failed to load: %v", err)
			}
			if _, err := repo.Add("Read", 0, models.FrequencyDaily); err != nil {
				t.Fatalf("failed to add habit: %v", err)
			}
			before := repo.List()

			saveErr := errors.New("disk full")
			store.saveErr = saveErr

			m, cmd := pressUntilQuit(t, NewModel(repo), tt.keys...)
			if !errors.Is(m.Err(), saveErr) {
				t.Errorf("Err() = %v, want %v", m.Err(), saveErr)
			}
			if !m.quitting {
				t.Error("quitting not set")
			}
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
			if after := repo.List(); !reflect.DeepEqual(after, before) {
				t.Errorf("habits after failed save = %+v, want %+v", after, before)
			}
		})
	}
}

func TestInvalidFormInputKeepsRunning(t *testing.T) {
	m, _ := setupModel(t)

	m.habitForm = &HabitFormModel{Name: "Bad", Days: "x", Frequency: models.FrequencyDaily}
	err := m.submitHabitForm()
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("submitHabitForm() error = %v, want %v", err, models.ErrInvalidInput)
	}
	if m.quitting || m.Err() != nil {
		t.Error("invalid input should not end the program")
	}
}
