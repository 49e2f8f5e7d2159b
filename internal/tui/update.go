package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/repository"
	"github.com/julianstephens/habitual/internal/tui/components/habitlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// tabs, status line, help and margins
		m.habitList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case habitlist.AddHabitMsg:
		m.habitForm = &HabitFormModel{Days: "0", Frequency: models.FrequencyDaily}
		m.form = NewHabitForm(m.habitForm)
		m.state = StateAddHabit
		return m, m.form.Init()

	case habitlist.CompleteHabitMsg:
		cmd := m.completeHabit(msg.ID)
		return m, cmd

	case habitlist.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.state = StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		if m.habitList.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.switchTab((m.tab + 1) % tabCount)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.switchTab((m.tab - 1 + tabCount) % tabCount)
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Streak):
			m.status = m.repo.LongestStreak().String()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.habitList, cmd = m.habitList.Update(msg)
	return m, cmd
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.tab
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = m.tab
		if err := m.submitHabitForm(); err != nil {
			if !errors.Is(err, models.ErrInvalidInput) {
				cmd = m.fail("Failed to add habit", err)
				return m, cmd
			}
			m.status = "Error: " + err.Error()
		}
		m.refresh()
	case huh.StateAborted:
		m.state = m.tab
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		m.state = m.tab
		cmd := m.deleteHabit(m.habitToDeleteID)
		return m, cmd
	case key.Matches(keyMsg, m.keys.Cancel), key.Matches(keyMsg, m.keys.Quit):
		m.state = m.tab
	}
	return m, nil
}

func (m *Model) completeHabit(id int) tea.Cmd {
	h, err := m.repo.Complete(id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		m.status = fmt.Sprintf("No habit found with ID %d", id)
	case err != nil:
		return m.fail("Failed to complete habit", err)
	default:
		m.status = fmt.Sprintf("Habit '%s' has been marked as completed", h.Name)
	}
	m.refresh()
	return nil
}

func (m *Model) deleteHabit(id int) tea.Cmd {
	h, err := m.repo.Delete(id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		m.status = fmt.Sprintf("No habit found with ID %d", id)
	case err != nil:
		return m.fail("Failed to delete habit", err)
	default:
		m.status = fmt.Sprintf("Habit '%s' has been deleted", h.Name)
	}
	m.refresh()
	return nil
}

// fail records a persistence error and ends the program. The caller of
// Program.Run reads it back through Err.
func (m *Model) fail(msg string, err error) tea.Cmd {
	logger.Error(msg, "error", err)
	m.err = err
	m.quitting = true
	return tea.Quit
}
