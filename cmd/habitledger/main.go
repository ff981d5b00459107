package main

import (
	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitledger/internal/cli"
	"github.com/julianstephens/habitledger/internal/cli/system"
	"github.com/julianstephens/habitledger/internal/constants"
	"github.com/julianstephens/habitledger/internal/errors"
	"github.com/julianstephens/habitledger/internal/logger"
	"github.com/julianstephens/habitledger/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Storage path (.json or SQLite), PostgreSQL connection string, or 'keyring'. PostgreSQL credentials must NOT be embedded; use HABITLEDGER_DB_CONNECTION, the OS keyring or .pgpass." env:"HABITLEDGER_CONFIG" default:"~/.config/habitledger/habitledger.db"`
	Verbose  bool   `help:"Log debug output to stderr." name:"debug" env:"HABITLEDGER_DEBUG"`
	LogLevel string `help:"Log level for the log file (debug, info, warn, error)." name:"log-level" env:"HABITLEDGER_LOG_LEVEL"`

	Init    system.InitCmd    `cmd:"" help:"Initialize habitledger storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Apply schema migrations and convert legacy check-in records."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit   cli.HabitCmd      `cmd:"" help:"Manage habits."`
	CheckIn cli.CheckInCmd    `cmd:"" name:"checkin" help:"Record and edit check-ins."`
	Stats   cli.StatsCmd      `cmd:"" help:"Show statistics for a habit."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Debug   system.DebugCmd   `cmd:"" help:"Debug commands for troubleshooting."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with a multi-entry check-in ledger"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configDir, err := storage.ConfigDir(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Verbose, ConfigDir: configDir, Level: CLI.LogLevel}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "version", constants.Version)

	// keyring commands manage the connection string and need no store
	var store storage.Provider
	if !isKeyringCommand(ctx) {
		store, err = storage.Open(CLI.Config)
		if err != nil {
			errors.Fatal(err)
		}
		defer store.Close()
	}

	appCtx := &cli.Context{Store: store}

	// init, migrate and doctor handle their own loading
	if store != nil && needsLoad(ctx) {
		if err := store.Load(); err != nil {
			store.Close()
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		if store != nil {
			store.Close()
		}
		errors.Fatal(err)
	}
}

func isKeyringCommand(ctx *kong.Context) bool {
	sel := ctx.Selected()
	return sel != nil && sel.Parent != nil && sel.Parent.Name == "keyring"
}

func needsLoad(ctx *kong.Context) bool {
	sel := ctx.Selected()
	if sel == nil {
		return true
	}
	switch sel.Name {
	case "init", "migrate", "doctor":
		return false
	}
	return true
}
