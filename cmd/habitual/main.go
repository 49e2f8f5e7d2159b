package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Habit store: a JSON file, a SQLite file (.db, .sqlite), a PostgreSQL URL without password, or 'keyring' for a connection string kept in the OS keyring." type:"string" default:"${default_config}" env:"HABITUAL_CONFIG"`
	DebugLog bool   `name:"debug" help:"Write debug logs to stderr." env:"HABITUAL_DEBUG"`

	Init     cli.InitCmd     `cmd:"" help:"Initialize habitual storage."`
	Add      cli.AddCmd      `cmd:"" help:"Add a new habit."`
	List     cli.ListCmd     `cmd:"" help:"Show habits."`
	Complete cli.CompleteCmd `cmd:"" help:"Mark a habit as completed today."`
	Delete   cli.DeleteCmd   `cmd:"" help:"Delete a habit."`
	Urgent   cli.UrgentCmd   `cmd:"" help:"Show habits due today that are not completed."`
	Streak   cli.StreakCmd   `cmd:"" help:"Show the longest run of consecutive completions."`
	Menu     cli.MenuCmd     `cmd:"" help:"Open the interactive menu."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Validate cli.ValidateCmd `cmd:"" help:"Check stored habits for conflicts."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Debug    cli.DebugCmd    `cmd:"" help:"Debug commands for troubleshooting."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage store backups."`
	Keyring struct {
		Set    cli.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string."`
		Get    cli.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete cli.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status cli.KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal habit tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	logDir, err := cli.LogDir(CLI.Config)
	if err == nil {
		err = logger.Init(logger.Config{Debug: CLI.DebugLog, LogDir: logDir})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "version", constants.Version)

	// Keyring commands manage the connection string and never open the store
	if strings.HasPrefix(ctx.Command(), "keyring") {
		errors.Fatal(ctx.Run(cli.NewContext(nil, utils.SystemClock)))
		return
	}

	store, err := cli.OpenStore(CLI.Config)
	errors.Fatal(err)

	err = ctx.Run(cli.NewContext(store, utils.SystemClock))
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	errors.Fatal(err)
}
