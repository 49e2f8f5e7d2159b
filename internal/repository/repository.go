// Package repository holds the in-memory habit collection and persists it
// through a storage provider.
package repository

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/analyzer"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

// ErrNotFound is returned when no habit has the requested id
var ErrNotFound = errors.New("habit not found")

// Repository is the ordered habit collection. It is not safe for concurrent use.
type Repository struct {
	store  storage.Provider
	clock  utils.Clock
	habits []models.Habit
	// highWater is the largest id handed out or seen by this process
	highWater int
}

func New(store storage.Provider, clock utils.Clock) *Repository {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &Repository{
		store:  store,
		clock:  clock,
		habits: []models.Habit{},
	}
}

// Load replaces the in-memory collection with the stored document. An
// unreadable store is logged and treated as empty.
func (r *Repository) Load() error {
	doc, err := r.store.Load()
	if err != nil {
		if !errors.Is(err, storage.ErrStorageUnavailable) {
			return err
		}
		logger.Warn("Storage unreadable, starting with no habits", "store", r.store.GetConfigPath(), "error", err)
		doc = models.EmptyDocument()
	}

	r.habits = doc.ToHabits()
	for _, h := range r.habits {
		if h.ID > r.highWater {
			r.highWater = h.ID
		}
	}
	logger.Debug("Loaded habits", "count", len(r.habits), "store", r.store.GetConfigPath())
	return nil
}

// Save writes the whole collection, replacing what is stored
func (r *Repository) Save() error {
	if err := r.store.Save(r.Document()); err != nil {
		return fmt.Errorf("failed to save habits: %w", err)
	}
	return nil
}

// Add creates a habit starting today, assigns it the next id and persists it
func (r *Repository) Add(name string, durationInDays int, frequency models.Frequency) (models.Habit, error) {
	h, err := models.NewHabit(name, durationInDays, frequency, r.clock())
	if err != nil {
		return models.Habit{}, err
	}
	prevHighWater := r.highWater
	h.ID = r.nextID()
	r.highWater = h.ID

	r.habits = append(r.habits, h)
	if err := r.Save(); err != nil {
		r.habits = r.habits[:len(r.habits)-1]
		r.highWater = prevHighWater
		return models.Habit{}, err
	}
	logger.Info("Added habit", "id", h.ID, "name", h.Name, "deadline", h.Deadline)
	return h, nil
}

// nextID is one past the largest id in the collection, but never at or
// below an id already issued in this process.
func (r *Repository) nextID() int {
	next := 1
	for _, h := range r.habits {
		if h.ID >= next {
			next = h.ID + 1
		}
	}
	if next <= r.highWater {
		next = r.highWater + 1
	}
	return next
}

// indexOf returns the position of the first habit with id. Ids below 1 are
// unassigned and never match.
func (r *Repository) indexOf(id int) int {
	if id <= 0 {
		return -1
	}
	for i, h := range r.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the first habit with the given id
func (r *Repository) Find(id int) (models.Habit, bool) {
	if i := r.indexOf(id); i >= 0 {
		return r.habits[i], true
	}
	return models.Habit{}, false
}

// Complete marks the habit done today and persists. The returned habit
// reflects the new state.
func (r *Repository) Complete(id int) (models.Habit, error) {
	i := r.indexOf(id)
	if i < 0 {
		return models.Habit{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	prev := r.habits[i]
	r.habits[i].Complete(r.clock())
	if err := r.Save(); err != nil {
		r.habits[i] = prev
		return models.Habit{}, err
	}
	logger.Info("Completed habit", "id", id, "date", r.habits[i].CompletedDate)
	return r.habits[i], nil
}

// Delete removes every habit with id and persists. The first removed habit
// is returned. The id is not handed out again by this process.
func (r *Repository) Delete(id int) (models.Habit, error) {
	i := r.indexOf(id)
	if i < 0 {
		return models.Habit{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	removed := r.habits[i]
	prev := r.habits
	r.habits = r.filter(func(h models.Habit) bool { return h.ID != id })
	if err := r.Save(); err != nil {
		r.habits = prev
		return models.Habit{}, err
	}
	logger.Info("Deleted habit", "id", id, "name", removed.Name)
	return removed, nil
}

// List returns every habit in insertion order
func (r *Repository) List() []models.Habit {
	out := make([]models.Habit, len(r.habits))
	copy(out, r.habits)
	return out
}

// ListByFrequency returns the habits with the given frequency in insertion order
func (r *Repository) ListByFrequency(frequency models.Frequency) []models.Habit {
	return r.filter(func(h models.Habit) bool { return h.Frequency == frequency })
}

// Urgent returns the habits due today and not completed
func (r *Repository) Urgent() []models.Habit {
	today := r.Today()
	return r.filter(func(h models.Habit) bool { return analyzer.IsUrgent(h, today) })
}

// Outdated returns the habits past their deadline and not completed
func (r *Repository) Outdated() []models.Habit {
	today := r.Today()
	return r.filter(func(h models.Habit) bool { return analyzer.IsOutdated(h, today) })
}

func (r *Repository) filter(keep func(models.Habit) bool) []models.Habit {
	out := []models.Habit{}
	for _, h := range r.habits {
		if keep(h) {
			out = append(out, h)
		}
	}
	return out
}

func (r *Repository) LongestStreak() analyzer.StreakResult {
	return analyzer.LongestStreak(r.habits)
}

func (r *Repository) Streaks() []analyzer.NameStreak {
	return analyzer.StreaksByName(r.habits)
}

// Today is the repository clock's date as YYYY-MM-DD
func (r *Repository) Today() string {
	return utils.Today(r.clock)
}

// Document encodes the collection in its stored form
func (r *Repository) Document() models.Document {
	return models.NewDocument(r.habits)
}

// Store returns the underlying provider
func (r *Repository) Store() storage.Provider {
	return r.store
}
