package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/models"
)

type menuChoice int

const (
	menuHelp menuChoice = iota
	menuAdd
	menuShowAll
	menuShowByFrequency
	menuLongestStreak
	menuComplete
	menuUrgent
	menuDelete
	menuExit
)

var menuTitles = map[menuChoice]string{
	menuHelp:            "Help and functional explanations",
	menuAdd:             "Add new habit",
	menuShowAll:         "Show all habits",
	menuShowByFrequency: "Show me all habits with the same repetition interval",
	menuLongestStreak:   "Show me the longest running streak overall",
	menuComplete:        "Mark habit as completed",
	menuUrgent:          "Check urgent habits",
	menuDelete:          "Delete a habit",
	menuExit:            "Exit the program",
}

var menuExplanations = map[menuChoice]string{
	menuHelp:            "Explains what each entry of the main menu does.",
	menuAdd:             "Asks for a name, the number of days until the deadline and a repetition interval, then stores the habit with the next free ID. Today becomes its start date.",
	menuShowAll:         "Lists every stored habit with its dates, frequency and completion state. A habit is outdated when its deadline passed without it being completed.",
	menuShowByFrequency: "Asks for daily, weekly or monthly and lists only the habits with that repetition interval.",
	menuLongestStreak:   "Finds the habit name completed on the most consecutive days. At least two days in a row count as a streak.",
	menuComplete:        "Asks for a habit ID and marks that habit as completed today. Completing it again moves the completion date to today.",
	menuUrgent:          "Lists habits whose deadline is today and that are not completed yet.",
	menuDelete:          "Asks for a habit ID and removes that habit. Its ID is not handed out again during this session.",
	menuExit:            "Ends the program. Habits are saved after every change, so nothing is lost.",
}

func menuOrder() []menuChoice {
	return []menuChoice{menuHelp, menuAdd, menuShowAll, menuShowByFrequency, menuLongestStreak, menuComplete, menuUrgent, menuDelete, menuExit}
}

// menuPrompter collects the menu's interactive input
type menuPrompter interface {
	Choose() (menuChoice, error)
	HelpTopic() (menuChoice, error)
	NewHabit() (AddCmd, error)
	Frequency() (string, error)
	HabitID(title string) (int, error)
}

type MenuCmd struct{}

func (c *MenuCmd) Run(ctx *Context) error {
	ctx.PerformAutomaticBackup()
	return runMenu(ctx, huhPrompter{})
}

func runMenu(ctx *Context, p menuPrompter) error {
	for {
		choice, err := p.Choose()
		if errors.Is(err, huh.ErrUserAborted) {
			choice = menuExit
		} else if err != nil {
			return err
		}

		done, err := dispatchMenu(ctx, p, choice)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		ctx.Println()
	}
}

// dispatchMenu runs one menu entry and reports whether the loop should end.
// Aborted prompts return to the menu.
func dispatchMenu(ctx *Context, p menuPrompter, choice menuChoice) (bool, error) {
	var err error
	switch choice {
	case menuHelp:
		var topic menuChoice
		if topic, err = p.HelpTopic(); err == nil {
			ctx.Printf("%s:\n  %s\n", menuTitles[topic], menuExplanations[topic])
		}
	case menuAdd:
		var cmd AddCmd
		if cmd, err = p.NewHabit(); err == nil {
			err = cmd.Run(ctx)
		}
	case menuShowAll:
		err = (&ListCmd{}).Run(ctx)
	case menuShowByFrequency:
		var freq string
		if freq, err = p.Frequency(); err == nil {
			err = (&ListCmd{Frequency: freq}).Run(ctx)
		}
	case menuLongestStreak:
		err = (&StreakCmd{}).Run(ctx)
	case menuComplete:
		var id int
		if id, err = p.HabitID("Enter the ID of the habit you want to mark as completed:"); err == nil {
			err = (&CompleteCmd{ID: id}).Run(ctx)
		}
	case menuUrgent:
		err = (&UrgentCmd{}).Run(ctx)
	case menuDelete:
		var id int
		if id, err = p.HabitID("Enter the ID of the habit you want to delete:"); err == nil {
			err = (&DeleteCmd{ID: id}).Run(ctx)
		}
	case menuExit:
		ctx.Println("The habit tracker is terminated")
		return true, nil
	default:
		return false, fmt.Errorf("unknown menu entry %d", choice)
	}

	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return false, err
}

type huhPrompter struct{}

func (huhPrompter) selectChoice(title string) (menuChoice, error) {
	var choice menuChoice
	options := make([]huh.Option[menuChoice], 0, len(menuTitles))
	for _, c := range menuOrder() {
		options = append(options, huh.NewOption(menuTitles[c], c))
	}
	err := huh.NewSelect[menuChoice]().
		Title(title).
		Options(options...).
		Value(&choice).
		Run()
	return choice, err
}

func (p huhPrompter) Choose() (menuChoice, error) {
	return p.selectChoice("What would you like to do?")
}

func (p huhPrompter) HelpTopic() (menuChoice, error) {
	return p.selectChoice("For which of the functions in the main menu do you need help?")
}

func (huhPrompter) NewHabit() (AddCmd, error) {
	cmd := AddCmd{Days: 0, Frequency: string(models.FrequencyDaily)}
	var days string
	freq := models.FrequencyDaily

	options := make([]huh.Option[models.Frequency], 0, 3)
	for _, f := range models.Frequencies() {
		options = append(options, huh.NewOption(string(f), f))
	}

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name of the habit").
				Value(&cmd.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Days until the deadline").
				Description("0 means the habit is due today").
				Value(&days).
				Validate(validateNonNegative),
			huh.NewSelect[models.Frequency]().
				Title("Repetition interval").
				Options(options...).
				Value(&freq),
		),
	).Run()
	if err != nil {
		return AddCmd{}, err
	}

	if strings.TrimSpace(days) != "" {
		cmd.Days, _ = strconv.Atoi(strings.TrimSpace(days))
	}
	cmd.Frequency = string(freq)
	return cmd, nil
}

func (huhPrompter) Frequency() (string, error) {
	var freq models.Frequency
	options := make([]huh.Option[models.Frequency], 0, 3)
	for _, f := range models.Frequencies() {
		options = append(options, huh.NewOption(string(f), f))
	}
	err := huh.NewSelect[models.Frequency]().
		Title("Which repetition interval?").
		Options(options...).
		Value(&freq).
		Run()
	return string(freq), err
}

func (huhPrompter) HabitID(title string) (int, error) {
	var raw string
	err := huh.NewInput().
		Title(title).
		Value(&raw).
		Validate(validateHabitID).
		Run()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

func validateNonNegative(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a whole number")
	}
	if n < 0 {
		return errors.New("the number cannot be negative")
	}
	return nil
}

func validateHabitID(s string) error {
	if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
		return errors.New("enter a numeric habit ID")
	}
	return nil
}
