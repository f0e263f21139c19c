package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/storage"
	"github.com/julianstephens/lifelog/internal/storage/postgres"
	"github.com/julianstephens/lifelog/internal/utils"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing SQLite database before initialization."`
	Source string `help:"Source database path or connection string to copy records from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized lifelog storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		ctx.Println("Copy completed successfully!")
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if !storage.IsSQLite(ctx.Store) {
		return errors.New("--force is only supported for SQLite databases")
	}
	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDB, errDB := filepath.Abs(dbPath)
		absSource, errSource := filepath.Abs(c.Source)
		if errDB == nil && errSource == nil && absDB == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		for _, suffix := range []string{"-wal", "-shm"} {
			_ = os.Remove(dbPath + suffix)
		}
		ctx.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func (c *InitCmd) openSource() (storage.Provider, error) {
	if utils.IsPostgresDSN(c.Source) {
		if _, err := postgres.ValidateConnString(c.Source); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return nil, err
		}
		return storage.NewPostgresStore(c.Source), nil
	}
	path, err := utils.ExpandHome(c.Source)
	if err != nil {
		return nil, err
	}
	return storage.NewSQLiteStore(path), nil
}

// copyData appends every record of the source store to the destination.
// Ids are reassigned by the destination.
func (c *InitCmd) copyData(ctx *cli.Context) error {
	source, err := c.openSource()
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	bg := ctx.Background()
	dest := ctx.Store
	all := models.History()

	ctx.Println("  Copying settings...")
	settings, err := source.GetSettings(bg)
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := dest.SaveSettings(bg, settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	study, err := source.ListStudyLogs(bg, all)
	if err != nil {
		return err
	}
	if err := copyEach(ctx, "study logs", study, func(l models.StudyLog) error {
		_, err := dest.AddStudyLog(bg, l)
		return err
	}); err != nil {
		return err
	}

	finance, err := source.ListFinanceLogs(bg, all)
	if err != nil {
		return err
	}
	if err := copyEach(ctx, "finance logs", finance, func(l models.FinanceLog) error {
		_, err := dest.AddFinanceLog(bg, l)
		return err
	}); err != nil {
		return err
	}

	debts, err := source.ListDebts(bg, all)
	if err != nil {
		return err
	}
	if err := copyEach(ctx, "debts", debts, func(d models.Debt) error {
		_, err := dest.AddDebt(bg, d)
		return err
	}); err != nil {
		return err
	}

	sleep, err := source.ListSleepLogs(bg, all)
	if err != nil {
		return err
	}
	if err := copyEach(ctx, "sleep logs", sleep, func(l models.SleepLog) error {
		return dest.SaveSleepLog(bg, l)
	}); err != nil {
		return err
	}

	diary, err := source.ListDiaryLogs(bg, all)
	if err != nil {
		return err
	}
	if err := copyEach(ctx, "diary entries", diary, func(l models.DiaryLog) error {
		return dest.SaveDiaryLog(bg, l)
	}); err != nil {
		return err
	}

	jobs, err := source.ListJobApplications(bg, all)
	if err != nil {
		return err
	}
	if err := copyEach(ctx, "job applications", jobs, func(a models.JobApplication) error {
		_, err := dest.AddJobApplication(bg, a)
		return err
	}); err != nil {
		return err
	}

	learn, err := source.ListLearnItems(bg, all)
	if err != nil {
		return err
	}
	return copyEach(ctx, "learning items", learn, func(i models.LearnItem) error {
		_, err := dest.AddLearnItem(bg, i)
		return err
	})
}

func copyEach[T any](ctx *cli.Context, label string, items []T, add func(T) error) error {
	ctx.Printf("  Copying %s...\n", label)
	for i, item := range items {
		if err := add(item); err != nil {
			return fmt.Errorf("failed to copy %s #%d: %w", label, i+1, err)
		}
	}
	ctx.Printf("    Copied %d %s\n", len(items), label)
	return nil
}
