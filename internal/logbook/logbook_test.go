package logbook

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/storage"
	"github.com/julianstephens/lifelog/internal/trends"
)

func setupTestRepository(t *testing.T) *Repository {
	t.Helper()
	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "lifelog.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store)
}

func TestTwoStudyLogsSameDate(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t)

	for _, l := range []models.StudyLog{
		{Date: "2024-01-01", Topic: "Algorithms", Duration: 2.5},
		{Date: "2024-01-01", Topic: "Systems", Duration: 1.0},
	} {
		if _, err := repo.AppendRecord(ctx, l); err != nil {
			t.Fatalf("AppendRecord() failed: %v", err)
		}
	}

	records, err := repo.ListByDate(ctx, models.CategoryStudy, "2024-01-01")
	if err != nil {
		t.Fatalf("ListByDate() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	first, second := records[0].(models.StudyLog), records[1].(models.StudyLog)
	if first.Topic != "Algorithms" || second.Topic != "Systems" {
		t.Errorf("records out of insertion order: %s, %s", first.Topic, second.Topic)
	}
}

func TestUpsertIdempotence(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t)

	rec := models.SleepLog{Date: "2024-01-02", BedTime: "23:30", WakeTime: "06:15", Quality: 4}
	for i := 0; i < 3; i++ {
		if _, err := repo.UpsertByDate(ctx, rec); err != nil {
			t.Fatalf("UpsertByDate() #%d failed: %v", i+1, err)
		}
	}

	records, err := repo.ListByDate(ctx, models.CategorySleep, "2024-01-02")
	if err != nil {
		t.Fatalf("ListByDate() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 sleep record, got %d", len(records))
	}
	if got := records[0].(models.SleepLog).Duration; got != 6.75 {
		t.Errorf("Duration = %v, want 6.75", got)
	}
}

func TestUpsertReplacesAndRecomputesDuration(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t)

	if _, err := repo.LogSleep(ctx, "2024-01-02", "23:30", "06:15", 4, ""); err != nil {
		t.Fatalf("LogSleep() failed: %v", err)
	}
	// A caller-supplied duration is ignored.
	saved, err := repo.UpsertByDate(ctx, models.SleepLog{Date: "2024-01-02", BedTime: "22:00", WakeTime: "06:00", Quality: 5, Duration: 99})
	if err != nil {
		t.Fatalf("UpsertByDate() failed: %v", err)
	}
	if got := saved.(models.SleepLog).Duration; got != 8 {
		t.Errorf("returned Duration = %v, want 8", got)
	}

	records, err := repo.ListRecent(ctx, models.CategorySleep, 7)
	if err != nil {
		t.Fatalf("ListRecent() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 sleep record, got %d", len(records))
	}
	got := records[0].(models.SleepLog)
	if got.Quality != 5 || got.Duration != 8 || got.BedTime != "22:00" {
		t.Errorf("stored sleep log = %+v, want replaced record", got)
	}
}

func TestUpsertRejectsAppendCategory(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t)

	_, err := repo.UpsertByDate(ctx, models.StudyLog{Date: "2024-01-01", Topic: "Go"})
	if !stderrors.Is(err, errors.ErrInvalidRecord) {
		t.Errorf("UpsertByDate(study) error = %v, want ErrInvalidRecord", err)
	}
	_, err = repo.AppendRecord(ctx, models.DiaryLog{Date: "2024-01-01", Entry: "x"})
	if !stderrors.Is(err, errors.ErrInvalidRecord) {
		t.Errorf("AppendRecord(diary) error = %v, want ErrInvalidRecord", err)
	}
}

func TestAppendValidatesBeforeWrite(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t)

	_, err := repo.AppendRecord(ctx, models.FinanceLog{Date: "2024-01-01", Income: decimal.NewFromInt(-1)})
	if !stderrors.Is(err, errors.ErrInvalidRecord) {
		t.Fatalf("AppendRecord() error = %v, want ErrInvalidRecord", err)
	}

	records, err := repo.ListHistory(ctx, models.CategoryFinance)
	if err != nil {
		t.Fatalf("ListHistory() failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("invalid record was written: %+v", records)
	}
}

func TestAppendDefaultsJobStatus(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t)

	saved, err := repo.Save(ctx, models.JobApplication{Date: "2024-01-03", Company: "Acme", Role: "SRE"})
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	app := saved.(models.JobApplication)
	if app.Status != "Applied" || app.ID == 0 {
		t.Errorf("saved job application = %+v, want Applied with an id", app)
	}
}

func TestDebtListing(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t)

	if _, err := repo.AppendRecord(ctx, models.Debt{Kind: models.DebtLoan, Name: "Bank", Amount: decimal.NewFromInt(1200)}); err != nil {
		t.Fatalf("AppendRecord() failed: %v", err)
	}

	if _, err := repo.ListByDate(ctx, models.CategoryDebt, "2024-01-01"); !stderrors.Is(err, errors.ErrInvalidRecord) {
		t.Errorf("ListByDate(debt) error = %v, want ErrInvalidRecord", err)
	}

	records, err := repo.ListRecent(ctx, models.CategoryDebt, 5)
	if err != nil {
		t.Fatalf("ListRecent() failed: %v", err)
	}
	if len(records) != 1 || records[0].(models.Debt).Kind != models.DebtLoan {
		t.Errorf("ListRecent(debt) = %+v", records)
	}
}

func TestExistsForDate(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t)

	if _, err := repo.Save(ctx, models.DiaryLog{Date: "2024-01-04", Entry: "quiet day"}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	tests := []struct {
		category models.Category
		date     string
		want     bool
	}{
		{models.CategoryDiary, "2024-01-04", true},
		{models.CategoryDiary, "2024-01-05", false},
		{models.CategoryStudy, "2024-01-04", false},
	}
	for _, tt := range tests {
		got, err := repo.ExistsForDate(ctx, tt.category, tt.date)
		if err != nil {
			t.Fatalf("ExistsForDate(%s, %s) error: %v", tt.category, tt.date, err)
		}
		if got != tt.want {
			t.Errorf("ExistsForDate(%s, %s) = %v, want %v", tt.category, tt.date, got, tt.want)
		}
	}

	if _, err := repo.ExistsForDate(ctx, models.CategoryDiary, "yesterday"); !stderrors.Is(err, errors.ErrInvalidRecord) {
		t.Errorf("ExistsForDate(bad date) error = %v, want ErrInvalidRecord", err)
	}
}

func TestListUnknownCategory(t *testing.T) {
	repo := setupTestRepository(t)
	if _, err := repo.ListRecent(context.Background(), models.Category("workouts"), 3); !stderrors.Is(err, errors.ErrUnknownCategory) {
		t.Errorf("ListRecent(unknown) error = %v, want ErrUnknownCategory", err)
	}
}

func TestConcurrentWritesSerialize(t *testing.T) {
	ctx := context.Background()
	repo := setupTestRepository(t)
	const date = "2024-05-01"
	const workers = 50

	var wg sync.WaitGroup
	errs := make(chan error, workers*3)
	for i := 0; i < workers; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, err := repo.AppendRecord(ctx, models.FinanceLog{Date: date, Income: decimal.NewFromInt(1)})
			errs <- err
		}()
		go func(i int) {
			defer wg.Done()
			_, err := repo.UpsertByDate(ctx, models.DiaryLog{Date: date, Entry: fmt.Sprintf("entry %d", i)})
			errs <- err
		}(i)
		go func() {
			defer wg.Done()
			_, err := repo.ListRecent(ctx, models.CategoryFinance, 5)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("concurrent operation failed: %v", err)
		}
	}

	finance, err := repo.ListByDate(ctx, models.CategoryFinance, date)
	if err != nil {
		t.Fatalf("ListByDate(finance) failed: %v", err)
	}
	if len(finance) != workers {
		t.Errorf("expected %d finance rows, got %d", workers, len(finance))
	}
	diary, err := repo.ListByDate(ctx, models.CategoryDiary, date)
	if err != nil {
		t.Fatalf("ListByDate(diary) failed: %v", err)
	}
	if len(diary) != 1 {
		t.Errorf("expected exactly 1 diary row, got %d", len(diary))
	}

	weekly, err := trends.New(repo.Store()).WeeklyTotal(ctx, trends.FinanceIncome)
	if err != nil {
		t.Fatalf("WeeklyTotal() failed: %v", err)
	}
	if !weekly.Equal(decimal.NewFromInt(7)) {
		t.Errorf("WeeklyTotal(finance.income) = %s, want 7", weekly)
	}
}
