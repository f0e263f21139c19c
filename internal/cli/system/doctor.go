package system

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/lifelog/internal/backup"
	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/logger"
	"github.com/julianstephens/lifelog/internal/metrics"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/storage"
	"github.com/julianstephens/lifelog/internal/utils"
	"github.com/julianstephens/lifelog/internal/validation"
)

type DoctorCmd struct{}

// errWarning marks a check whose failure does not fail the run.
var errWarning = errors.New("warning")

type check struct {
	name    string
	needsDB bool
	run     func(ctx *cli.Context) error
}

var checks = []check{
	{"Database reachable", false, checkDBReachable},
	{"Schema version", true, checkSchemaVersion},
	{"Settings", true, checkSettings},
	{"Sleep durations", true, checkSleepDurations},
	{"Backups present", true, checkBackupsPresent},
	{"Log directory", false, checkLogDir},
	{"Clock", false, checkClock},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("%s %s: OK\n", cli.SuccessStyle.Render("✓"), c.name)
		case errors.Is(err, errWarning):
			ctx.Printf("%s %s: WARNING\n", cli.WarningStyle.Render("⚠"), c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("%s %s: FAIL\n", cli.DangerStyle.Render("❌"), c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(ctx.Background()); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion(ctx.Background())
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("database is at version %d but %d is available, run 'lifelog migrate'", current, latest)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings(ctx.Background())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)
	return validation.Settings(settings)
}

// checkSleepDurations verifies every stored duration matches its bed and
// wake times.
func checkSleepDurations(ctx *cli.Context) error {
	logs, err := ctx.Store.ListSleepLogs(ctx.Background(), models.History())
	if err != nil {
		return fmt.Errorf("failed to list sleep logs: %w", err)
	}
	for _, l := range logs {
		want, err := metrics.SleepDuration(l.BedTime, l.WakeTime)
		if err != nil {
			return fmt.Errorf("sleep log %s: %w", l.Date, err)
		}
		if want != l.Duration {
			return fmt.Errorf("sleep log %s has duration %.2f, expected %.2f", l.Date, l.Duration, want)
		}
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !storage.IsSQLite(ctx.Store) {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		return fmt.Errorf("%w: failed to list backups: %v", errWarning, err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("%w: no backups found, consider creating one with 'lifelog backup create'", errWarning)
	}
	return nil
}

func checkLogDir(ctx *cli.Context) error {
	cfg := logger.Config{}
	if ctx.Config != nil {
		cfg.LogDir = ctx.Config.Log.Dir
	}
	configDir, err := utils.ExpandHome(constants.DefaultConfigDir)
	if err != nil {
		return err
	}
	cfg.ConfigDir = configDir

	dir := cfg.Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

func checkClock(ctx *cli.Context) error {
	now := time.Now()
	if ctx.Now != nil {
		now = ctx.Now()
	}
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
