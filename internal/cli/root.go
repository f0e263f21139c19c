package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/lifelog/internal/backup"
	"github.com/julianstephens/lifelog/internal/config"
	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/logbook"
	"github.com/julianstephens/lifelog/internal/logger"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/storage"
	"github.com/julianstephens/lifelog/internal/trends"
	"github.com/julianstephens/lifelog/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	Store  storage.Provider
	Config *config.Config

	// Ctx is cancelled on interrupt. Nil means context.Background.
	Ctx context.Context
	// Out receives command output. Nil means stdout.
	Out io.Writer
	// Now replaces the wall clock in tests.
	Now func() time.Time
}

// Background returns the context commands pass to storage calls.
func (c *Context) Background() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// Writer returns where command output goes.
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Writer(), args...)
}

// Repo wraps the store in the log repository.
func (c *Context) Repo() *logbook.Repository {
	return logbook.New(c.Store)
}

// Trends returns an aggregation engine over the store.
func (c *Context) Trends() *trends.Engine {
	return trends.New(c.Store)
}

// Settings returns the stored settings with defaults applied and the current
// time in the configured timezone.
func (c *Context) Settings() (models.Settings, time.Time, error) {
	settings, err := c.Store.GetSettings(c.Background())
	if err != nil {
		return models.Settings{}, time.Time{}, fmt.Errorf("failed to get settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)

	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return models.Settings{}, time.Time{}, fmt.Errorf("invalid timezone %q in settings: %w", settings.Timezone, err)
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return settings, now().In(loc), nil
}

// Today returns today's date in the configured timezone.
func (c *Context) Today() (string, error) {
	_, now, err := c.Settings()
	if err != nil {
		return "", err
	}
	return now.Format(constants.DateFormat), nil
}

// ResolveDate returns date when set, otherwise today.
func (c *Context) ResolveDate(date string) (string, error) {
	if date != "" {
		return date, nil
	}
	return c.Today()
}

// PerformAutomaticBackup snapshots a SQLite database before risky operations.
// Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	if !storage.IsSQLite(c.Store) {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(c.Background()); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
