package backup

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/lifelog/internal/constants"
	"github.com/julianstephens/lifelog/internal/models"
	"github.com/julianstephens/lifelog/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "lifelog.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if _, err := store.AddLearnItem(context.Background(), models.LearnItem{Date: "2024-05-01", Topic: "original"}); err != nil {
		t.Fatalf("AddLearnItem() failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	return dbPath
}

func learnTopics(t *testing.T, dbPath string) []string {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer store.Close()

	items, err := store.ListLearnItems(context.Background(), models.History())
	if err != nil {
		t.Fatalf("ListLearnItems() failed: %v", err)
	}
	var topics []string
	for _, i := range items {
		topics = append(topics, i.Topic)
	}
	return topics
}

// fixedClock returns a clock that advances one minute per call.
func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(time.Minute)
		return t
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	m := NewManager(dbPath)

	path, err := m.CreateBackup(context.Background())
	if err != nil {
		t.Fatalf("CreateBackup() failed: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(filepath.Dir(dbPath), constants.BackupDirName) {
		t.Errorf("backup written to %s, want backups dir", path)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, constants.BackupFilePrefix) || !strings.HasSuffix(base, constants.BackupFileSuffix) {
		t.Errorf("unexpected backup name %s", base)
	}
	if err := VerifyBackup(context.Background(), path); err != nil {
		t.Errorf("VerifyBackup() failed: %v", err)
	}
}

func TestBackupWithNoDatabase(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := m.CreateBackup(context.Background()); err == nil {
		t.Error("CreateBackup() should fail without a database")
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	m := NewManager(dbPath)
	m.now = fixedClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local))

	for i := 0; i < constants.MaxBackups+3; i++ {
		if _, err := m.CreateBackup(context.Background()); err != nil {
			t.Fatalf("CreateBackup() #%d failed: %v", i+1, err)
		}
	}

	backups, err := m.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	newest := time.Date(2024, 5, 1, 8, constants.MaxBackups+2, 0, 0, time.Local)
	if !backups[0].Timestamp.Equal(newest) {
		t.Errorf("newest backup = %v, want %v", backups[0].Timestamp, newest)
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	dbPath := setupTestDB(t)
	m := NewManager(dbPath)
	stamp := time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)
	m.now = func() time.Time { return stamp }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		path, err := m.CreateBackup(context.Background())
		if err != nil {
			t.Fatalf("CreateBackup() failed: %v", err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := m.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() failed: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("expected 3 backups with counter suffixes, got %d", len(backups))
	}
}

func TestListBackupsIgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	m := NewManager(dbPath)

	if backups, err := m.ListBackups(); err != nil || len(backups) != 0 {
		t.Fatalf("ListBackups() before any backup = %v, %v", backups, err)
	}

	if err := os.MkdirAll(m.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "lifelog-garbage.db", "other-20240101-120000.db"} {
		if err := os.WriteFile(filepath.Join(m.GetBackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := m.CreateBackup(context.Background()); err != nil {
		t.Fatalf("CreateBackup() failed: %v", err)
	}

	backups, err := m.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() failed: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("expected only the real backup, got %+v", backups)
	}
}

func TestParseBackupName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		want time.Time
	}{
		{"lifelog-20240501-083015.db", true, time.Date(2024, 5, 1, 8, 30, 15, 0, time.Local)},
		{"lifelog-20240501-083015-2.db", true, time.Date(2024, 5, 1, 8, 30, 15, 0, time.Local)},
		{"lifelog-20240501.db", false, time.Time{}},
		{"other-20240501-083015.db", false, time.Time{}},
	}
	for _, tt := range tests {
		got, ok := parseBackupName(tt.name)
		if ok != tt.ok || !got.Equal(tt.want) {
			t.Errorf("parseBackupName(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRestoreBackup(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t)
	m := NewManager(dbPath)
	m.now = fixedClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local))

	backupPath, err := m.CreateBackup(ctx)
	if err != nil {
		t.Fatalf("CreateBackup() failed: %v", err)
	}

	store := sqlite.NewStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if _, err := store.AddLearnItem(ctx, models.LearnItem{Date: "2024-05-02", Topic: "added later"}); err != nil {
		t.Fatalf("AddLearnItem() failed: %v", err)
	}
	store.Close()

	if got := learnTopics(t, dbPath); len(got) != 2 {
		t.Fatalf("expected 2 topics before restore, got %v", got)
	}

	previous, err := m.RestoreBackup(ctx, backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup() failed: %v", err)
	}
	if previous == "" {
		t.Error("RestoreBackup() did not snapshot the current database")
	}

	if got := learnTopics(t, dbPath); len(got) != 1 || got[0] != "original" {
		t.Errorf("topics after restore = %v, want [original]", got)
	}
	if got := learnTopics(t, previous); len(got) != 2 {
		t.Errorf("pre-restore snapshot topics = %v, want both", got)
	}
}

func TestRestoreWithCorruptedBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	m := NewManager(dbPath)

	bad := filepath.Join(t.TempDir(), "lifelog-20240101-000000.db")
	if err := os.WriteFile(bad, []byte("this is not a database file at all, just text padding it out"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := m.RestoreBackup(context.Background(), bad); err == nil {
		t.Error("RestoreBackup() should reject a corrupted file")
	}
	if _, err := m.RestoreBackup(context.Background(), filepath.Join(t.TempDir(), "absent.db")); err == nil {
		t.Error("RestoreBackup() should reject a missing file")
	}

	if got := learnTopics(t, dbPath); len(got) != 1 {
		t.Errorf("database changed after failed restore: %v", got)
	}
}
