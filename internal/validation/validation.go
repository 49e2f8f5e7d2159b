package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// ConflictType represents the kind of integrity problem found in stored habits
type ConflictType string

const (
	ConflictDuplicateID        ConflictType = "duplicate_id"
	ConflictMissingID          ConflictType = "missing_id"
	ConflictInvalidID          ConflictType = "invalid_id"
	ConflictEmptyName          ConflictType = "empty_name"
	ConflictInvalidFrequency   ConflictType = "invalid_frequency"
	ConflictInvalidDate        ConflictType = "invalid_date"
	ConflictNegativeDuration   ConflictType = "negative_duration"
	ConflictDeadlineMismatch   ConflictType = "deadline_mismatch"
	ConflictCompletionMismatch ConflictType = "completion_mismatch"
)

// Conflict is a single problem with one or more stored habits
type Conflict struct {
	Type        ConflictType
	Description string
	// Positions are indexes into the validated document
	Positions []int
	IDs       []int
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns how many conflicts have the given type
func (vr *ValidationResult) Count(kind ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == kind {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks a stored document for integrity problems
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateDocument checks every record. Conflicts are reported in record
// order, with duplicate ids last.
func (v *Validator) ValidateDocument(doc models.Document) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	positionsByID := make(map[int][]int)
	for pos, rec := range doc.Habits {
		label := recordLabel(pos, rec)
		add := func(kind ConflictType, format string, args ...interface{}) {
			c := Conflict{
				Type:        kind,
				Description: label + ": " + fmt.Sprintf(format, args...),
				Positions:   []int{pos},
			}
			if rec.ID != nil {
				c.IDs = []int{*rec.ID}
			}
			result.Conflicts = append(result.Conflicts, c)
		}

		switch {
		case rec.ID == nil:
			add(ConflictMissingID, "has no id and cannot be completed or deleted by id")
		case *rec.ID <= 0:
			add(ConflictInvalidID, "has non-positive id %d", *rec.ID)
		default:
			positionsByID[*rec.ID] = append(positionsByID[*rec.ID], pos)
		}

		if strings.TrimSpace(rec.Name) == "" {
			add(ConflictEmptyName, "has an empty name")
		}

		if !models.Frequency(rec.Frequency).Valid() {
			add(ConflictInvalidFrequency, "has unknown frequency %q", rec.Frequency)
		}

		if rec.DurationInDays < 0 {
			add(ConflictNegativeDuration, "has negative duration %d", rec.DurationInDays)
		}

		deadlineOK := utils.ValidateDateFormat(rec.Deadline)
		if !deadlineOK {
			add(ConflictInvalidDate, "has invalid deadline %q", rec.Deadline)
		}

		if rec.StartDate != nil {
			if !utils.ValidateDateFormat(*rec.StartDate) {
				add(ConflictInvalidDate, "has invalid start_date %q", *rec.StartDate)
			} else if deadlineOK && rec.DurationInDays >= 0 {
				want, _ := utils.AddDays(*rec.StartDate, rec.DurationInDays)
				if want != rec.Deadline {
					add(ConflictDeadlineMismatch, "deadline %s does not match start_date %s plus %d days (%s)",
						rec.Deadline, *rec.StartDate, rec.DurationInDays, want)
				}
			}
		}

		switch {
		case rec.Completed && rec.CompletedDate == nil:
			add(ConflictCompletionMismatch, "is completed but has no completed_date")
		case !rec.Completed && rec.CompletedDate != nil:
			add(ConflictCompletionMismatch, "is not completed but has completed_date %s", *rec.CompletedDate)
		case rec.CompletedDate != nil && !utils.ValidateDateFormat(*rec.CompletedDate):
			add(ConflictInvalidDate, "has invalid completed_date %q", *rec.CompletedDate)
		}
	}

	ids := make([]int, 0, len(positionsByID))
	for id, positions := range positionsByID {
		if len(positions) > 1 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	for _, id := range ids {
		positions := positionsByID[id]
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateID,
			Description: fmt.Sprintf("Duplicate id %d shared by %d habits (positions %v)", id, len(positions), positions),
			Positions:   positions,
			IDs:         []int{id},
		})
	}

	return result
}

func recordLabel(pos int, rec models.Record) string {
	if rec.ID != nil {
		return fmt.Sprintf("Habit %d (%q)", *rec.ID, rec.Name)
	}
	return fmt.Sprintf("Habit at position %d (%q)", pos, rec.Name)
}
