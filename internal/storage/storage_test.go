package storage

import (
	"path/filepath"
	"testing"
)

func TestNewSelectsBackend(t *testing.T) {
	lite := New(filepath.Join(t.TempDir(), "lifelog.db"))
	if !IsSQLite(lite) {
		t.Errorf("New(path) returned %T, want sqlite store", lite)
	}

	pg := New("postgresql://me@localhost:5432/lifelog")
	if IsSQLite(pg) {
		t.Errorf("New(postgres dsn) returned %T, want postgres store", pg)
	}
	if pg.GetConfigPath() != "postgresql" {
		t.Errorf("GetConfigPath() = %q", pg.GetConfigPath())
	}
}
