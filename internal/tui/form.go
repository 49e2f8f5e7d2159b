package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/models"
)

// NewHabitForm creates the form used to add a habit
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	options := make([]huh.Option[models.Frequency], 0, len(models.Frequencies()))
	for _, f := range models.Frequencies() {
		options = append(options, huh.NewOption(string(f), f))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Days until deadline").
				Description("0 means the habit is due today").
				Value(&fm.Days).
				Validate(validateDays),
			huh.NewSelect[models.Frequency]().
				Title("Frequency").
				Options(options...).
				Value(&fm.Frequency),
		),
	)
}

func validateDays(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number of days")
	}
	if i < 0 {
		return fmt.Errorf("days cannot be negative")
	}
	return nil
}

// submitHabitForm adds the habit described by the form and saves it
func (m *Model) submitHabitForm() error {
	days := 0
	if s := strings.TrimSpace(m.habitForm.Days); s != "" {
		var err error
		if days, err = strconv.Atoi(s); err != nil {
			return fmt.Errorf("%w: invalid number of days %q", models.ErrInvalidInput, m.habitForm.Days)
		}
	}

	h, err := m.repo.Add(m.habitForm.Name, days, m.habitForm.Frequency)
	if err != nil {
		return err
	}
	m.status = fmt.Sprintf("Added habit '%s' (ID %d), due %s", h.Name, h.ID, h.Deadline)
	return nil
}
