package database

import (
	"context"
	"database/sql"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/config"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		password BYTEA NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS post_groups (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGSERIAL PRIMARY KEY,
		text TEXT NOT NULL CHECK (text <> ''),
		author_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		group_id BIGINT REFERENCES post_groups (id) ON DELETE SET NULL,
		image TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS posts_group_id_idx ON posts (group_id)`,
	`CREATE INDEX IF NOT EXISTS posts_author_id_idx ON posts (author_id)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id BIGSERIAL PRIMARY KEY,
		text TEXT NOT NULL CHECK (text <> ''),
		author_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		post_id BIGINT NOT NULL REFERENCES posts (id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS comments_post_id_idx ON comments (post_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS follows (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		author_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL,
		CONSTRAINT follows_unique_pair UNIQUE (user_id, author_id),
		CONSTRAINT follows_no_self_follow CHECK (user_id <> author_id)
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		password BLOB NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS post_groups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL CHECK (text <> ''),
		author_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		group_id INTEGER REFERENCES post_groups (id) ON DELETE SET NULL,
		image TEXT,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS posts_created_at_idx ON posts (created_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS posts_group_id_idx ON posts (group_id)`,
	`CREATE INDEX IF NOT EXISTS posts_author_id_idx ON posts (author_id)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL CHECK (text <> ''),
		author_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		post_id INTEGER NOT NULL REFERENCES posts (id) ON DELETE CASCADE,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS comments_post_id_idx ON comments (post_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS follows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		author_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		created_at DATETIME NOT NULL,
		CONSTRAINT follows_unique_pair UNIQUE (user_id, author_id),
		CONSTRAINT follows_no_self_follow CHECK (user_id <> author_id)
	)`,
}

// Migrate creates the schema for the given driver. Every statement is
// idempotent, so it runs on each start-up.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts := postgresSchema
	if driver == config.DriverSQLite {
		stmts = sqliteSchema
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return xerrors.Newf("migration failed: %w", err)
		}
	}
	return nil
}
