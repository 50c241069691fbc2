// Package storage opens the local SQLite store and brings its schema up to
// date with the embedded goose migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/keijiban-app/keijiban/internal/client/migrations"
	"github.com/keijiban-app/keijiban/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DSN builds a modernc.org/sqlite data source name for path with foreign keys
// enforced. File databases additionally get WAL and a busy timeout.
func DSN(path string) string {
	pragmas := url.Values{}
	pragmas.Add("_pragma", "foreign_keys(1)")

	if path == "" || path == MemoryPath {
		return "file::memory:?" + pragmas.Encode()
	}

	pragmas.Add("_pragma", "busy_timeout(5000)")
	pragmas.Add("_pragma", "journal_mode(WAL)")
	return "file:" + path + "?" + pragmas.Encode()
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies all pending embedded migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Open opens (creating if needed) the database at path and migrates it.
// Missing parent directories of a file database are created. An in-memory
// database is limited to one connection, since every new connection would
// otherwise see its own empty database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	inMemory := path == "" || path == MemoryPath
	if !inMemory {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
	}

	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if inMemory {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
