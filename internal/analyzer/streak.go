package analyzer

import (
	"fmt"
	"sort"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// StreakKind classifies the outcome of a streak search
type StreakKind int

const (
	// StreakNoHabits means there was nothing to analyze at all
	StreakNoHabits StreakKind = iota
	// StreakNone means no habit was completed on two or more consecutive days
	StreakNone
	// StreakFound means Length and Name describe the longest streak
	StreakFound
)

// StreakResult is the longest run of consecutive daily completions for one habit name
type StreakResult struct {
	Kind   StreakKind
	Name   string
	Length int
}

// String describes the result the way the streak views print it
func (r StreakResult) String() string {
	switch r.Kind {
	case StreakNoHabits:
		return "There are no habits yet."
	case StreakFound:
		return fmt.Sprintf("The longest streak is %d days for the habit '%s'.", r.Length, r.Name)
	default:
		return "There are no streaks of consecutive completed habits."
	}
}

// NameStreak is the best run for a single habit name
type NameStreak struct {
	Name        string
	Length      int
	Completions int
}

// LongestStreak finds the longest run of completions on consecutive calendar
// days among habits sharing a name. Ties keep the name whose first completion
// appears earliest in habits.
func LongestStreak(habits []models.Habit) StreakResult {
	if len(habits) == 0 {
		return StreakResult{Kind: StreakNoHabits}
	}

	best := StreakResult{Kind: StreakNone}
	for _, s := range StreaksByName(habits) {
		if s.Length > best.Length {
			best.Length = s.Length
			best.Name = s.Name
		}
	}

	if best.Length < constants.MinStreakLength {
		return StreakResult{Kind: StreakNone}
	}
	best.Kind = StreakFound
	return best
}

// StreaksByName returns the longest run for every habit name that has at
// least one completion, in order of first appearance.
func StreaksByName(habits []models.Habit) []NameStreak {
	var names []string
	groups := make(map[string][]string)
	for _, h := range habits {
		if h.CompletedDate == "" {
			continue
		}
		if _, ok := groups[h.Name]; !ok {
			names = append(names, h.Name)
		}
		groups[h.Name] = append(groups[h.Name], h.CompletedDate)
	}

	streaks := make([]NameStreak, 0, len(names))
	for _, name := range names {
		dates := groups[name]
		streaks = append(streaks, NameStreak{
			Name:        name,
			Length:      longestRun(dates),
			Completions: len(dates),
		})
	}
	return streaks
}

// longestRun sorts dates and returns the longest run where each date is
// exactly one day after the previous. An unparsable date ends the run.
func longestRun(dates []string) int {
	if len(dates) == 0 {
		return 0
	}
	sort.SliceStable(dates, func(i, j int) bool { return dates[i] < dates[j] })

	current, longest := 1, 1
	for i := 1; i < len(dates); i++ {
		diff, err := utils.DaysBetween(dates[i-1], dates[i])
		if err == nil && diff == 1 {
			current++
			continue
		}
		if current > longest {
			longest = current
		}
		current = 1
	}
	if current > longest {
		longest = current
	}
	return longest
}
