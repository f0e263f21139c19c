package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/logger"
	"github.com/julianstephens/lifelog/internal/migration"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/storage/sqldb"
	"github.com/julianstephens/lifelog/migrations"
)

// pragmas keep readers unblocked while a write is in flight.
const pragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

// Store is the file-backed SQLite provider. Record operations come from the
// embedded sqldb.Repository, which is set once Init or Load succeeds.
type Store struct {
	*sqldb.Repository
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path+pragmas)
	if err != nil {
		return errors.Storage("open database", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return errors.Storage("open database", err)
	}
	s.db = db
	s.Repository = sqldb.New(db, migration.SQLite)
	return nil
}

func (s *Store) Init() error {
	ctx := context.Background()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Storage("create config directory", err)
	}

	if s.db == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if err := s.runMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	settings, err := s.GetSettings(ctx)
	if err != nil && !stderrors.Is(err, sqldb.ErrSettingsNotFound) {
		return err
	}
	if err != nil || settings.DayStart == "" {
		if err := s.SaveSettings(ctx, models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return errors.Storage("load database", fmt.Errorf("%s does not exist, run 'lifelog init' first", s.path))
	}

	if err := s.open(); err != nil {
		return err
	}

	return s.validateSchemaVersion(context.Background())
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		s.Repository = nil
		return err
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.SQLite), nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	_, err := s.Migrate(ctx, func(msg string) {
		logger.Info(msg)
	})
	return err
}

// Migrate applies pending embedded migrations and returns how many ran.
func (s *Store) Migrate(ctx context.Context, logFn func(string)) (int, error) {
	if s.db == nil {
		return 0, errors.Storage("migrate", fmt.Errorf("database is not open"))
	}
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(ctx, logFn)
}

func (s *Store) validateSchemaVersion(ctx context.Context) error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion(ctx)
}

// SchemaVersion reports the applied and newest available migration versions.
func (s *Store) SchemaVersion(ctx context.Context) (int, int, error) {
	if s.db == nil {
		return 0, 0, errors.Storage("schema version", fmt.Errorf("database is not open"))
	}
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	current, err := runner.GetCurrentVersion(ctx)
	if err != nil {
		return 0, 0, err
	}
	latest, err := runner.GetLatestVersion()
	return current, latest, err
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection.
// Returns nil if the database has not been initialized or loaded.
func (s *Store) GetDB() *sql.DB {
	return s.db
}
