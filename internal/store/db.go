package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/migrations"
)

// DB wraps the server's SQLite connection.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// NewSQLiteDB opens (and creates if needed) the SQLite database at dsn with
// foreign keys enforced and WAL journaling. Callers run Migrate before using
// the repositories.
func NewSQLiteDB(dsn string, log *logger.Logger) (*DB, error) {
	db, err := sql.Open("sqlite3", dsn+"?_foreign_keys=1&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	return &DB{DB: db, logger: log}, nil
}

// Migrate brings the schema up to the latest embedded version.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
