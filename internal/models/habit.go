package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
)

// ErrInvalidInput is returned when a habit cannot be built from the given values
var ErrInvalidInput = errors.New("invalid input")

// Frequency is the repetition interval of a habit
type Frequency string

const (
	FrequencyDaily   Frequency = "Daily"
	FrequencyWeekly  Frequency = "Weekly"
	FrequencyMonthly Frequency = "Monthly"
)

// Frequencies returns the supported frequencies in display order
func Frequencies() []Frequency {
	return []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly}
}

// Valid reports whether f is one of the supported frequencies
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// ParseFrequency parses a frequency name case-insensitively
func ParseFrequency(s string) (Frequency, error) {
	for _, f := range Frequencies() {
		if strings.EqualFold(strings.TrimSpace(s), string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown frequency %q (expected daily, weekly or monthly)", ErrInvalidInput, s)
}

// Habit is a single habit and its completion state.
//
// Dates are kept as YYYY-MM-DD strings, the same form they have on disk.
// Outdated status is never stored here; see analyzer.IsOutdated.
type Habit struct {
	ID             int
	Name           string
	StartDate      string
	DurationInDays int
	Deadline       string
	Frequency      Frequency
	Completed      bool
	CompletedDate  string
	// Timeout is the legacy stored outdated flag. It is carried for format
	// compatibility only and is never read.
	Timeout *bool
}

// NewHabit creates a habit registered on today with a deadline durationInDays later.
// The id is left unassigned; the repository sets it.
func NewHabit(name string, durationInDays int, frequency Frequency, today time.Time) (Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Habit{}, fmt.Errorf("%w: habit name cannot be empty", ErrInvalidInput)
	}
	if durationInDays < 0 {
		return Habit{}, fmt.Errorf("%w: duration must be zero or more days, got %d", ErrInvalidInput, durationInDays)
	}
	if !frequency.Valid() {
		return Habit{}, fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, frequency)
	}

	return Habit{
		Name:           name,
		StartDate:      today.Format(constants.DateFormat),
		DurationInDays: durationInDays,
		Deadline:       today.AddDate(0, 0, durationInDays).Format(constants.DateFormat),
		Frequency:      frequency,
	}, nil
}

// RestoreHabit rebuilds a habit from persisted values without recomputing anything
func RestoreHabit(id int, name, startDate string, durationInDays int, deadline string, frequency Frequency, completed bool, completedDate string, timeout *bool) Habit {
	return Habit{
		ID:             id,
		Name:           name,
		StartDate:      startDate,
		DurationInDays: durationInDays,
		Deadline:       deadline,
		Frequency:      frequency,
		Completed:      completed,
		CompletedDate:  completedDate,
		Timeout:        timeout,
	}
}

// Complete marks the habit done on today. Completing an already completed
// habit refreshes the completion date.
func (h *Habit) Complete(today time.Time) {
	h.Completed = true
	h.CompletedDate = today.Format(constants.DateFormat)
}
