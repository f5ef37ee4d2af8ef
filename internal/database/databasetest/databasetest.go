// Package databasetest opens throwaway, fully migrated databases for tests.
package databasetest

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/siahsang/yatube/internal/config"
	"github.com/siahsang/yatube/internal/database"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
)

// New returns a migrated in-memory sqlite database that is closed when the
// test ends.
func New(t testing.TB) *sql.DB {
	t.Helper()

	db, err := database.Open(config.DB{
		Driver:       config.DriverSQLite,
		DSN:          ":memory:",
		QueryTimeout: 5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(context.Background(), db, config.DriverSQLite); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func NewSQLTemplate(db *sql.DB) *databaseutils.SQLTemplate {
	return databaseutils.NewSQLTemplate(db, 5*time.Second)
}
