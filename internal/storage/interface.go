package storage

import (
	"context"

	"github.com/julianstephens/lifelog/internal/models"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error

	// Append categories. Each call inserts one row and returns it with its id.
	AddStudyLog(ctx context.Context, log models.StudyLog) (models.StudyLog, error)
	AddFinanceLog(ctx context.Context, log models.FinanceLog) (models.FinanceLog, error)
	AddDebt(ctx context.Context, debt models.Debt) (models.Debt, error)
	AddJobApplication(ctx context.Context, app models.JobApplication) (models.JobApplication, error)
	AddLearnItem(ctx context.Context, item models.LearnItem) (models.LearnItem, error)

	// Upsert categories. A second save for the same date replaces the first.
	SaveSleepLog(ctx context.Context, log models.SleepLog) error
	SaveDiaryLog(ctx context.Context, log models.DiaryLog) error

	// Readers
	ListStudyLogs(ctx context.Context, q models.ListQuery) ([]models.StudyLog, error)
	ListFinanceLogs(ctx context.Context, q models.ListQuery) ([]models.FinanceLog, error)
	ListDebts(ctx context.Context, q models.ListQuery) ([]models.Debt, error)
	ListSleepLogs(ctx context.Context, q models.ListQuery) ([]models.SleepLog, error)
	ListDiaryLogs(ctx context.Context, q models.ListQuery) ([]models.DiaryLog, error)
	ListJobApplications(ctx context.Context, q models.ListQuery) ([]models.JobApplication, error)
	ListLearnItems(ctx context.Context, q models.ListQuery) ([]models.LearnItem, error)

	// ListStudyDates returns every date with at least one study log, newest first.
	ListStudyDates(ctx context.Context) ([]string, error)

	// HasEntryForDate reports whether the category has any row on date.
	HasEntryForDate(ctx context.Context, category models.Category, date string) (bool, error)

	// Migrate applies pending embedded migrations and returns how many ran.
	Migrate(ctx context.Context, logFn func(string)) (int, error)

	// SchemaVersion returns the applied and the newest embedded migration versions.
	SchemaVersion(ctx context.Context) (current int, latest int, err error)

	// Utility
	GetConfigPath() string
}
