package models

// Record is the stored form of a habit. Field names and nullability match the
// on-disk document exactly, so no field may be omitted when encoding.
type Record struct {
	ID             *int    `json:"id"`
	Name           string  `json:"name"`
	StartDate      *string `json:"start_date"`
	DurationInDays int     `json:"duration_in_days"`
	Deadline       string  `json:"deadline"`
	Frequency      string  `json:"frequency"`
	Completed      bool    `json:"completed"`
	Timeout        *bool   `json:"timeout"`
	CompletedDate  *string `json:"completed_date"`
}

// Document is the whole habit database
type Document struct {
	Habits []Record `json:"habits"`
}

// EmptyDocument returns the document used when nothing has been stored yet
func EmptyDocument() Document {
	return Document{Habits: []Record{}}
}

// ToRecord converts a habit into its stored form. An unassigned id (0) and
// empty dates are written as null, so a stored "id": 0 or "" date comes back
// as null after a rewrite.
func ToRecord(h Habit) Record {
	rec := Record{
		Name:           h.Name,
		DurationInDays: h.DurationInDays,
		Deadline:       h.Deadline,
		Frequency:      string(h.Frequency),
		Completed:      h.Completed,
	}
	if h.ID != 0 {
		id := h.ID
		rec.ID = &id
	}
	if h.StartDate != "" {
		start := h.StartDate
		rec.StartDate = &start
	}
	if h.CompletedDate != "" {
		done := h.CompletedDate
		rec.CompletedDate = &done
	}
	if h.Timeout != nil {
		timeout := *h.Timeout
		rec.Timeout = &timeout
	}
	return rec
}

// RecordToHabit rebuilds a habit from its stored form. The deadline is taken
// from the record as-is.
func RecordToHabit(rec Record) Habit {
	var (
		id            int
		startDate     string
		completedDate string
		timeout       *bool
	)
	if rec.ID != nil {
		id = *rec.ID
	}
	if rec.StartDate != nil {
		startDate = *rec.StartDate
	}
	if rec.CompletedDate != nil {
		completedDate = *rec.CompletedDate
	}
	if rec.Timeout != nil {
		v := *rec.Timeout
		timeout = &v
	}
	return RestoreHabit(id, rec.Name, startDate, rec.DurationInDays, rec.Deadline,
		Frequency(rec.Frequency), rec.Completed, completedDate, timeout)
}

// ToHabits decodes every record in the document, preserving order
func (d Document) ToHabits() []Habit {
	habits := make([]Habit, 0, len(d.Habits))
	for _, rec := range d.Habits {
		habits = append(habits, RecordToHabit(rec))
	}
	return habits
}

// NewDocument encodes habits into a document, preserving order
func NewDocument(habits []Habit) Document {
	doc := EmptyDocument()
	for _, h := range habits {
		doc.Habits = append(doc.Habits, ToRecord(h))
	}
	return doc
}
