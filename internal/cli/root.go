package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/habitual/internal/analyzer"
	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/repository"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

type Context struct {
	Store storage.Provider
	Repo  *repository.Repository
	Clock utils.Clock

	// Out and In default to the process's stdout and stdin
	Out io.Writer
	In  io.Reader
}

// NewContext wires a repository over store using clock for "today"
func NewContext(store storage.Provider, clock utils.Clock) *Context {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &Context{
		Store: store,
		Repo:  repository.New(store, clock),
		Clock: clock,
		Out:   os.Stdout,
		In:    os.Stdin,
	}
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

// PerformAutomaticBackup backs up file stores and only logs failures
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*storage.PostgresStore); ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

// FormatHabit renders the full listing line for a habit
func FormatHabit(h models.Habit, today string) string {
	status := analyzer.Evaluate(h, today)
	return fmt.Sprintf("ID: %d, Name: %s, Start: %s, Deadline: %s, Outdated: %s, Frequency: %s, Completed: %s, Completed on: %s",
		h.ID, h.Name, orNone(h.StartDate), h.Deadline, yesNo(status.Outdated), h.Frequency, yesNo(h.Completed), orNone(h.CompletedDate))
}

// FormatHabitShort renders the listing line used for frequency views
func FormatHabitShort(h models.Habit) string {
	return fmt.Sprintf("ID: %d, Name: %s, Start: %s, Deadline: %s, Frequency: %s, Completed: %s",
		h.ID, h.Name, orNone(h.StartDate), h.Deadline, h.Frequency, yesNo(h.Completed))
}
