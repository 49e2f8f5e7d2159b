package analyzer

import "github.com/julianstephens/habitual/internal/models"

// Status is the derived state of a habit on a given day
type Status struct {
	Outdated bool
	Urgent   bool
}

// IsOutdated reports whether the deadline passed without the habit being completed.
// Dates are compared as YYYY-MM-DD strings, which orders them chronologically.
func IsOutdated(h models.Habit, today string) bool {
	return !h.Completed && h.Deadline < today
}

// IsUrgent reports whether the habit is due today and still open
func IsUrgent(h models.Habit, today string) bool {
	return !h.Completed && h.Deadline == today
}

// Evaluate derives the full status of h on today
func Evaluate(h models.Habit, today string) Status {
	return Status{
		Outdated: IsOutdated(h, today),
		Urgent:   IsUrgent(h, today),
	}
}
