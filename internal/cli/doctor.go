package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/validation"
)

// listProcesses is replaced in tests
var listProcesses = ps.Processes

type DoctorCmd struct{}

type checkStatus int

const (
	checkOK checkStatus = iota
	checkWarn
	checkFail
	checkSkipped
)

func (ctx *Context) reportCheck(name string, status checkStatus, detail string) {
	switch status {
	case checkOK:
		ctx.Printf("✓ %s: OK\n", name)
	case checkWarn:
		ctx.Printf("⚠ %s: WARNING\n", name)
	case checkFail:
		ctx.Printf("❌ %s: FAIL\n", name)
	case checkSkipped:
		ctx.Printf("⊘ %s: SKIPPED (%s)\n", name, detail)
		return
	}
	if detail != "" {
		ctx.Printf("   %s\n", detail)
	}
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	record := func(name string, err error, warnOnly bool) {
		switch {
		case err == nil:
			ctx.reportCheck(name, checkOK, "")
		case warnOnly:
			ctx.reportCheck(name, checkWarn, err.Error())
		default:
			ctx.reportCheck(name, checkFail, "Error: "+err.Error())
			hasError = true
		}
	}

	loadErr := checkStoreReachable(ctx)
	record("Storage reachable", loadErr, false)

	if loadErr == nil {
		record("Schema version", checkSchemaVersion(ctx), false)
		record("Data validation", checkValidation(ctx), false)
	} else {
		ctx.reportCheck("Schema version", checkSkipped, "storage not reachable")
		ctx.reportCheck("Data validation", checkSkipped, "storage not reachable")
	}

	if _, ok := ctx.Store.(*storage.PostgresStore); ok {
		ctx.reportCheck("Backups present", checkSkipped, "PostgreSQL store")
	} else {
		record("Backups present", checkBackupsPresent(ctx), true)
	}

	record("Clock", checkClock(ctx), false)
	record("Other habitual processes", checkOtherProcesses(), true)

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if _, err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	versioned, ok := ctx.Store.(storage.Versioned)
	if !ok {
		// JSON documents carry no schema version
		return nil
	}

	current, latest, err := versioned.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("database schema version (%d) is behind latest (%d)", current, latest)
	}
	return nil
}

func checkValidation(ctx *Context) error {
	doc, err := ctx.Store.Load()
	if err != nil {
		return err
	}
	result := validation.New().ValidateDocument(doc)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found, run 'habitual validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, consider creating one with 'habitual backup create'")
	}
	return nil
}

func checkClock(ctx *Context) error {
	now := ctx.Clock()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

// checkOtherProcesses warns when another habitual process may be writing
// the same store. Nothing is locked.
func checkOtherProcesses() error {
	procs, err := listProcesses()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	self := os.Getpid()
	var pids []string
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(p.Executable()), ".exe")
		if name == constants.AppName {
			pids = append(pids, fmt.Sprint(p.Pid()))
		}
	}
	if len(pids) > 0 {
		return fmt.Errorf("other habitual processes running (pid %s); concurrent writes can lose changes", strings.Join(pids, ", "))
	}
	return nil
}
