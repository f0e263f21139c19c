package logs

import (
	"bytes"
	stderrors "errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/errors"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	if err := store.SaveSettings(t.Context(), settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store: store,
		Out:   out,
		Now:   func() time.Time { return time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC) },
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, out, cleanup
}

func TestAddStudyCmd_DefaultsToToday(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &AddStudyCmd{Topic: "Graphs", Duration: 1.5}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add study failed: %v", err)
	}

	logs, err := ctx.Store.ListStudyLogs(t.Context(), models.ForDate("2024-03-10"))
	if err != nil {
		t.Fatalf("ListStudyLogs failed: %v", err)
	}
	if len(logs) != 1 || logs[0].Topic != "Graphs" || logs[0].Duration != 1.5 {
		t.Errorf("unexpected study logs: %+v", logs)
	}
	if !strings.Contains(out.String(), "2024-03-10") {
		t.Errorf("output should mention the log date, got %q", out.String())
	}
}

func TestAddStudyCmd_AppendsSameDate(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	for _, topic := range []string{"Algorithms", "Systems"} {
		cmd := &AddStudyCmd{Topic: topic, Duration: 1, Date: "2024-01-01"}
		if err := cmd.Run(ctx); err != nil {
			t.Fatalf("add study %s failed: %v", topic, err)
		}
	}

	logs, err := ctx.Store.ListStudyLogs(t.Context(), models.ForDate("2024-01-01"))
	if err != nil {
		t.Fatalf("ListStudyLogs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("expected 2 study logs on the same date, got %d", len(logs))
	}
}

func TestAddFinanceCmd_RejectsBadAmount(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &AddFinanceCmd{Income: "lots", Expense: "0"}
	err := cmd.Run(ctx)
	if !stderrors.Is(err, errors.ErrInvalidRecord) {
		t.Fatalf("expected invalid record error, got %v", err)
	}

	cmd = &AddFinanceCmd{Income: "10", Expense: "-5"}
	if err := cmd.Run(ctx); !stderrors.Is(err, errors.ErrInvalidRecord) {
		t.Fatalf("expected negative expense to be rejected, got %v", err)
	}
}

func TestAddDebtCmd(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &AddDebtCmd{Name: "Bank", Amount: "1200.50", Category: models.DebtLoan}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add debt failed: %v", err)
	}

	debts, err := ctx.Store.ListDebts(t.Context(), models.History())
	if err != nil {
		t.Fatalf("ListDebts failed: %v", err)
	}
	if len(debts) != 1 || debts[0].Amount.String() != "1200.5" || debts[0].Kind != models.DebtLoan {
		t.Errorf("unexpected debts: %+v", debts)
	}
}

func TestAddSleepCmd_Replaces(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	first := &AddSleepCmd{Bed: "22:00", Wake: "06:00", Quality: 3, Date: "2024-03-09"}
	if err := first.Run(ctx); err != nil {
		t.Fatalf("first sleep failed: %v", err)
	}
	second := &AddSleepCmd{Bed: "23:30", Wake: "06:15", Quality: 4, Date: "2024-03-09"}
	if err := second.Run(ctx); err != nil {
		t.Fatalf("second sleep failed: %v", err)
	}

	logs, err := ctx.Store.ListSleepLogs(t.Context(), models.ForDate("2024-03-09"))
	if err != nil {
		t.Fatalf("ListSleepLogs failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected one sleep log, got %d", len(logs))
	}
	if logs[0].Duration != 6.75 || logs[0].Quality != 4 {
		t.Errorf("expected the second submission to win, got %+v", logs[0])
	}
}

func TestAddDiaryAndJobCmd(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&AddDiaryCmd{Entry: "Quiet day"}).Run(ctx); err != nil {
		t.Fatalf("add diary failed: %v", err)
	}
	if err := (&AddJobCmd{Company: "Acme", Role: "Engineer"}).Run(ctx); err != nil {
		t.Fatalf("add job failed: %v", err)
	}
	if err := (&AddLearnCmd{Topic: "Rust"}).Run(ctx); err != nil {
		t.Fatalf("add learn failed: %v", err)
	}

	apps, err := ctx.Store.ListJobApplications(t.Context(), models.History())
	if err != nil {
		t.Fatalf("ListJobApplications failed: %v", err)
	}
	if len(apps) != 1 || apps[0].Status != "Applied" {
		t.Errorf("unexpected job applications: %+v", apps)
	}

	ok, err := ctx.Store.HasEntryForDate(t.Context(), models.CategoryDiary, "2024-03-10")
	if err != nil || !ok {
		t.Errorf("expected a diary entry for today, got %v (err %v)", ok, err)
	}
}

func TestListCmd(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	for _, topic := range []string{"Algorithms", "Systems"} {
		if err := (&AddStudyCmd{Topic: topic, Duration: 2}).Run(ctx); err != nil {
			t.Fatalf("add study failed: %v", err)
		}
	}
	out.Reset()

	if err := (&ListCmd{Category: "study", Limit: 10}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Algorithms", "Systems", "topic"} {
		if !strings.Contains(got, want) {
			t.Errorf("list output missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	if err := (&ListCmd{Category: "study", Limit: 0}).Run(ctx); err != nil {
		t.Fatalf("list history failed: %v", err)
	}
	got = out.String()
	first, second := strings.Index(got, "Algorithms"), strings.Index(got, "Systems")
	if first < 0 || second < 0 || first > second {
		t.Errorf("full history should list oldest first:\n%s", got)
	}

	out.Reset()
	if err := (&ListCmd{Category: "study", Dates: true}).Run(ctx); err != nil {
		t.Fatalf("list dates failed: %v", err)
	}
	if !strings.Contains(out.String(), "2024-03-10") {
		t.Errorf("study dates output missing today:\n%s", out.String())
	}
}

func TestListCmd_Errors(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&ListCmd{Category: "workouts"}).Run(ctx); !stderrors.Is(err, errors.ErrUnknownCategory) {
		t.Errorf("expected unknown category error, got %v", err)
	}
	if err := (&ListCmd{Category: "debt", Date: "2024-03-10"}).Run(ctx); !stderrors.Is(err, errors.ErrInvalidRecord) {
		t.Errorf("expected debts by date to be rejected, got %v", err)
	}
	if err := (&ListCmd{Category: "finance", Dates: true}).Run(ctx); err == nil {
		t.Error("expected --dates to be rejected for finance")
	}
}
