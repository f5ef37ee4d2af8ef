package database

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/config"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database and checks that it answers.
func Open(cfg config.DB, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, xerrors.New(err)
	}

	if cfg.Driver == config.DriverSQLite {
		// sqlite allows one writer; an in-memory database also lives and dies
		// with its connection, so the pool is pinned to a single one.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxIdleTime(cfg.MaxIdleTime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, xerrors.New(err)
	}

	if cfg.Driver == config.DriverSQLite {
		if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
			_ = db.Close()
			return nil, xerrors.New(err)
		}
	}

	log.Info("Database connection established", slog.String("driver", cfg.Driver))
	return db, nil
}
