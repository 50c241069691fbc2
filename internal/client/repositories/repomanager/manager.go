package repomanager

import (
	"context"
	"database/sql"

	"github.com/keijiban-app/keijiban/internal/client/repositories/boards"
	"github.com/keijiban-app/keijiban/internal/client/repositories/metadata"
	"github.com/keijiban-app/keijiban/internal/client/repositories/phrases"
	"github.com/keijiban-app/keijiban/internal/client/repositories/wordimages"
	"github.com/keijiban-app/keijiban/internal/dbx"
)

// RepositoryManager vends repositories bound to a DBTX so that services can
// run the same code against the database or inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Boards(db dbx.DBTX) boards.Repository
	WordImages(db dbx.DBTX) wordimages.Repository
	Phrases(db dbx.DBTX) phrases.Repository
	Metadata(db dbx.DBTX) metadata.Repository
}
