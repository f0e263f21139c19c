package storage

import (
	"github.com/julianstephens/lifelog/internal/storage/postgres"
	"github.com/julianstephens/lifelog/internal/storage/sqlite"
	"github.com/julianstephens/lifelog/internal/utils"
)

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

// NewSQLiteStore returns a provider backed by the SQLite file at path.
func NewSQLiteStore(path string) *sqlite.Store {
	return sqlite.NewStore(path)
}

// NewPostgresStore returns a provider backed by the PostgreSQL server in connStr.
func NewPostgresStore(connStr string) *postgres.Store {
	return postgres.New(connStr)
}

// New picks the backend from the shape of dsn: PostgreSQL URIs select the
// postgres store, anything else is treated as a SQLite file path.
func New(dsn string) Provider {
	if utils.IsPostgresDSN(dsn) {
		return NewPostgresStore(dsn)
	}
	return NewSQLiteStore(dsn)
}

// IsSQLite reports whether p stores its data in a local SQLite file.
func IsSQLite(p Provider) bool {
	_, ok := p.(*sqlite.Store)
	return ok
}
