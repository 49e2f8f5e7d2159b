package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/repository"
	"github.com/julianstephens/habitual/internal/tui/components/habitlist"
	"github.com/julianstephens/habitual/internal/validation"
)

type SessionState int

// The first tabCount states are list tabs, in display order
const (
	StateAll SessionState = iota
	StateDaily
	StateWeekly
	StateMonthly
	StateUrgent
	StateAddHabit
	StateConfirmDelete
)

const tabCount = 5

var tabTitles = []string{"All", "Daily", "Weekly", "Monthly", "Urgent"}

type HabitFormModel struct {
	Name      string
	Days      string
	Frequency models.Frequency
}

type Model struct {
	repo              *repository.Repository
	state             SessionState
	tab               SessionState
	keys              KeyMap
	help              help.Model
	habitList         habitlist.Model
	form              *huh.Form
	habitForm         *HabitFormModel
	habitToDeleteID   int
	status            string
	validationWarning string
	quitting          bool
	err               error
	width             int
	height            int
}

// NewModel builds the TUI over an already loaded repository
func NewModel(repo *repository.Repository) Model {
	m := Model{
		repo:      repo,
		state:     StateAll,
		tab:       StateAll,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		habitList: habitlist.New(nil, repo.Today(), 0, 0),
	}
	m.refresh()
	return m
}

// Err is the persistence error that ended the program, if any
func (m Model) Err() error {
	return m.err
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Add, m.keys.Complete, m.keys.Delete, m.keys.Streak, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help},
		{m.keys.Up, m.keys.Down},
		{m.keys.Add, m.keys.Complete, m.keys.Delete, m.keys.Streak},
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// visibleHabits returns the habits shown on the current tab
func (m Model) visibleHabits() []models.Habit {
	switch m.tab {
	case StateDaily:
		return m.repo.ListByFrequency(models.FrequencyDaily)
	case StateWeekly:
		return m.repo.ListByFrequency(models.FrequencyWeekly)
	case StateMonthly:
		return m.repo.ListByFrequency(models.FrequencyMonthly)
	case StateUrgent:
		return m.repo.Urgent()
	}
	return m.repo.List()
}

// refresh reloads the list items and the validation banner from the repository
func (m *Model) refresh() {
	m.habitList.SetHabits(m.visibleHabits(), m.repo.Today())

	result := validation.New().ValidateDocument(m.repo.Document())
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

func (m *Model) switchTab(tab SessionState) {
	m.tab = tab
	m.state = tab
	m.refresh()
}
