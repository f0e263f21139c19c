// Package logbook is the write and lookup surface over a storage provider.
// Every write is validated first and committed as a single statement.
package logbook

import (
	"context"
	"fmt"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/logger"
	"github.com/julianstephens/lifelog/internal/metrics"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/storage"
	"github.com/julianstephens/lifelog/internal/validation"
)

type Repository struct {
	store storage.Provider
}

func New(store storage.Provider) *Repository {
	return &Repository{store: store}
}

// Store exposes the provider for read paths that need it directly.
func (r *Repository) Store() storage.Provider {
	return r.store
}

// UpsertByDate stores the single sleep or diary record for its date,
// replacing any earlier one. Sleep duration is always recomputed.
func (r *Repository) UpsertByDate(ctx context.Context, rec models.Record) (models.Record, error) {
	switch v := rec.(type) {
	case models.SleepLog:
		duration, err := metrics.SleepDuration(v.BedTime, v.WakeTime)
		if err != nil {
			return nil, err
		}
		v.Duration = duration
		if err := validation.SleepLog(v); err != nil {
			return nil, err
		}
		if err := r.store.SaveSleepLog(ctx, v); err != nil {
			return nil, err
		}
		logger.Debug("Saved sleep log", "date", v.Date, "duration", v.Duration)
		return v, nil
	case models.DiaryLog:
		if err := validation.DiaryLog(v); err != nil {
			return nil, err
		}
		if err := r.store.SaveDiaryLog(ctx, v); err != nil {
			return nil, err
		}
		logger.Debug("Saved diary entry", "date", v.Date)
		return v, nil
	case nil:
		return nil, errors.Invalid("record", "is missing")
	default:
		return nil, errors.Invalid("category", "%s records are appended, not upserted", rec.Category())
	}
}

// AppendRecord inserts a new record for an append category and returns it
// with its assigned id.
func (r *Repository) AppendRecord(ctx context.Context, rec models.Record) (models.Record, error) {
	if rec == nil {
		return nil, errors.Invalid("record", "is missing")
	}
	if rec.Category().Mode() != models.ModeAppend {
		return nil, errors.Invalid("category", "%s keeps one record per date, use upsert", rec.Category())
	}
	if app, ok := rec.(models.JobApplication); ok && app.Status == "" {
		app.Status = constants.DefaultJobStatus
		rec = app
	}
	if err := validation.Record(rec); err != nil {
		return nil, err
	}

	var (
		saved models.Record
		err   error
	)
	switch v := rec.(type) {
	case models.StudyLog:
		saved, err = r.store.AddStudyLog(ctx, v)
	case models.FinanceLog:
		saved, err = r.store.AddFinanceLog(ctx, v)
	case models.Debt:
		saved, err = r.store.AddDebt(ctx, v)
	case models.JobApplication:
		saved, err = r.store.AddJobApplication(ctx, v)
	case models.LearnItem:
		saved, err = r.store.AddLearnItem(ctx, v)
	default:
		return nil, errors.Invalid("record", "has unsupported type %T", rec)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("Appended record", "category", rec.Category(), "date", rec.LogDate())
	return saved, nil
}

// Save routes rec to UpsertByDate or AppendRecord by its category's mode.
func (r *Repository) Save(ctx context.Context, rec models.Record) (models.Record, error) {
	if rec == nil {
		return nil, errors.Invalid("record", "is missing")
	}
	if rec.Category().Mode() == models.ModeUpsert {
		return r.UpsertByDate(ctx, rec)
	}
	return r.AppendRecord(ctx, rec)
}

// LogSleep records a night's sleep for date.
func (r *Repository) LogSleep(ctx context.Context, date, bed, wake string, quality int, core string) (models.SleepLog, error) {
	rec, err := r.UpsertByDate(ctx, models.SleepLog{
		Date:      date,
		BedTime:   bed,
		WakeTime:  wake,
		Quality:   quality,
		CoreSleep: core,
	})
	if err != nil {
		return models.SleepLog{}, err
	}
	return rec.(models.SleepLog), nil
}

// ListByDate returns every record of category on date, in insertion order.
func (r *Repository) ListByDate(ctx context.Context, category models.Category, date string) ([]models.Record, error) {
	if !category.DateScoped() {
		return nil, errors.Invalid("date", "%s records are not tied to a date", category)
	}
	if err := validation.Date("date", date); err != nil {
		return nil, err
	}
	return r.list(ctx, category, models.ForDate(date))
}

// ListRecent returns the newest limit records of category, newest first.
// A limit of zero or less returns everything.
func (r *Repository) ListRecent(ctx context.Context, category models.Category, limit int) ([]models.Record, error) {
	return r.list(ctx, category, models.Recent(limit))
}

// ListHistory returns every record of category, oldest first.
func (r *Repository) ListHistory(ctx context.Context, category models.Category) ([]models.Record, error) {
	return r.list(ctx, category, models.History())
}

// ExistsForDate reports whether category has at least one record on date.
func (r *Repository) ExistsForDate(ctx context.Context, category models.Category, date string) (bool, error) {
	if err := validation.Date("date", date); err != nil {
		return false, err
	}
	return r.store.HasEntryForDate(ctx, category, date)
}

// StudyDates returns the dates with study logs, newest first.
func (r *Repository) StudyDates(ctx context.Context) ([]string, error) {
	return r.store.ListStudyDates(ctx)
}

func (r *Repository) list(ctx context.Context, category models.Category, q models.ListQuery) ([]models.Record, error) {
	switch category {
	case models.CategoryStudy:
		return collect(r.store.ListStudyLogs(ctx, q))
	case models.CategoryFinance:
		return collect(r.store.ListFinanceLogs(ctx, q))
	case models.CategoryDebt:
		return collect(r.store.ListDebts(ctx, q))
	case models.CategorySleep:
		return collect(r.store.ListSleepLogs(ctx, q))
	case models.CategoryDiary:
		return collect(r.store.ListDiaryLogs(ctx, q))
	case models.CategoryJob:
		return collect(r.store.ListJobApplications(ctx, q))
	case models.CategoryLearn:
		return collect(r.store.ListLearnItems(ctx, q))
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownCategory, string(category))
	}
}

func collect[T models.Record](items []T, err error) ([]models.Record, error) {
	if err != nil {
		return nil, err
	}
	records := make([]models.Record, len(items))
	for i, item := range items {
		records[i] = item
	}
	return records, nil
}
