// Package repomanager provides a concrete RepositoryManager for the local
// SQLite store, wiring together repository constructors and migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/keijiban-app/keijiban/internal/client/repositories/boards"
	"github.com/keijiban-app/keijiban/internal/client/repositories/metadata"
	"github.com/keijiban-app/keijiban/internal/client/repositories/phrases"
	"github.com/keijiban-app/keijiban/internal/client/repositories/wordimages"
	"github.com/keijiban-app/keijiban/internal/client/storage"
	"github.com/keijiban-app/keijiban/internal/dbx"
)

// SQLiteRepositoryManager vends SQLite-backed repository implementations.
type SQLiteRepositoryManager struct{}

// Boards returns a boards.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) Boards(db dbx.DBTX) boards.Repository {
	return boards.NewSQLiteRepository(db)
}

// WordImages returns a wordimages.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) WordImages(db dbx.DBTX) wordimages.Repository {
	return wordimages.NewSQLiteRepository(db)
}

// Phrases returns a phrases.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) Phrases(db dbx.DBTX) phrases.Repository {
	return phrases.NewSQLiteRepository(db)
}

// Metadata returns a metadata.Repository bound to the provided DBTX.
func (m *SQLiteRepositoryManager) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// runMigrations is a seam for testing storage.RunMigrations.
var runMigrations = storage.RunMigrations

// RunMigrations applies the embedded goose migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db)
}

// NewSQLiteRepositoryManager constructs a SQLite-backed RepositoryManager.
func NewSQLiteRepositoryManager() RepositoryManager {
	return &SQLiteRepositoryManager{}
}
