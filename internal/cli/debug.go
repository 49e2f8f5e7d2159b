package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
)

type DebugCmd struct {
	DBPath    DebugDBPathCmd    `cmd:"" name:"db-path" help:"Show storage path."`
	DumpHabit DebugDumpHabitCmd `cmd:"" help:"Dump a stored habit record as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	output := map[string]string{
		"path": ctx.Store.GetConfigPath(),
		"run":  logger.RunID,
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	ctx.Println(string(jsonBytes))
	return nil
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"ID of the habit to dump, or 'all'."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *Context) error {
	if err := ctx.Repo.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	var payload interface{}
	if cmd.ID == "all" {
		payload = ctx.Repo.Document()
	} else {
		id, err := strconv.Atoi(cmd.ID)
		if err != nil {
			return fmt.Errorf("invalid habit id %q", cmd.ID)
		}
		h, ok := ctx.Repo.Find(id)
		if !ok {
			return fmt.Errorf("habit not found: %d", id)
		}
		payload = models.ToRecord(h)
	}

	jsonBytes, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal habit: %w", err)
	}

	ctx.Println(string(jsonBytes))
	return nil
}
