package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/cli/backups"
	"github.com/julianstephens/lifelog/internal/cli/logs"
	"github.com/julianstephens/lifelog/internal/cli/reports"
	"github.com/julianstephens/lifelog/internal/cli/settings"
	"github.com/julianstephens/lifelog/internal/cli/system"
	"github.com/julianstephens/lifelog/internal/config"
	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/logger"
	"github.com/julianstephens/lifelog/internal/storage"
	"github.com/julianstephens/lifelog/internal/storage/postgres"
	"github.com/julianstephens/lifelog/internal/utils"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"string" default:"${config_file}"`
	DB      string `name:"db" help:"SQLite file path, PostgreSQL connection string, or 'keyring'. Overrides database.path. PostgreSQL connection strings must NOT embed passwords; use the OS keyring, PGPASSWORD or .pgpass instead."`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init      system.InitCmd       `cmd:"" help:"Initialize lifelog storage."`
	Migrate   system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor    system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Add       logs.AddCmd          `cmd:"" help:"Log an entry."`
	List      logs.ListCmd         `cmd:"" help:"List entries of a category."`
	Today     reports.TodayCmd     `cmd:"" help:"Show day progress and what is still missing today." default:"1"`
	Trends    reports.TrendsCmd    `cmd:"" help:"Show a category's values over time."`
	Breakdown reports.BreakdownCmd `cmd:"" help:"Group debts by category or study hours by topic."`
	Settings  settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Serve     system.ServeCmd      `cmd:"" help:"Serve the JSON API."`
	Backup    struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups (SQLite only)."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is available."`
	} `cmd:"" help:"Manage the database connection string in the OS keyring."`
}

// selfLoading commands open (or create) the store themselves.
var selfLoading = []string{"init", "migrate", "doctor"}

func options() []kong.Option {
	return []kong.Option{
		kong.Name(constants.AppName),
		kong.Description("Personal life log: study, money, sleep, diary and more"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	}
}

func main() {
	ctx := kong.Parse(&CLI, options()...)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.DB != "" {
		cfg.Database.Path = CLI.DB
	}
	if CLI.Debug {
		cfg.Log.Debug = true
	}

	configDir, err := utils.ExpandHome(constants.DefaultConfigDir)
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, LogDir: cfg.Log.Dir, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	logger.Debug("Starting", "command", ctx.Command(), "version", constants.Version)

	appCtx := &cli.Context{
		Config: cfg,
		Ctx:    context.Background(),
	}

	// The keyring commands manage the connection string and need no store.
	if !strings.HasPrefix(ctx.Command(), "keyring") {
		store, err := openStore(cfg)
		if err != nil {
			errors.Fatal(err)
		}
		appCtx.Store = store

		if !isSelfLoading(ctx.Command()) {
			if err := store.Load(); err != nil {
				errors.Fatal(err)
			}
		}
	}

	err = ctx.Run(appCtx)
	if appCtx.Store != nil {
		if closeErr := appCtx.Store.Close(); closeErr != nil {
			logger.Warn("Failed to close database", "error", closeErr)
		}
	}
	errors.Fatal(err)
}

func openStore(cfg *config.Config) (storage.Provider, error) {
	dsn, err := cfg.ResolveDSN()
	if err != nil {
		return nil, err
	}
	if utils.IsPostgresDSN(dsn) && !cfg.UsesKeyring() {
		if _, err := postgres.ValidateConnString(dsn); err != nil {
			if stderrors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed. " +
					"Store it with 'lifelog keyring set' and use --db keyring, or use PGPASSWORD or .pgpass")
			}
			return nil, err
		}
	}
	logger.Debug("Opening store", "sqlite", !utils.IsPostgresDSN(dsn))
	return storage.New(dsn), nil
}

func isSelfLoading(command string) bool {
	for _, name := range selfLoading {
		if command == name || strings.HasPrefix(command, name+" ") {
			return true
		}
	}
	return false
}
