// Package dbx holds the small database/sql abstractions shared by the local
// store repositories: DBTX, implemented by both *sql.DB and *sql.Tx, and
// WithTx, which runs a unit of work as a single transaction.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrCommit marks a failure that happened while committing, after fn succeeded.
var ErrCommit = errors.New("commit failed")

// DBTX is the subset of database/sql used by repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx begins a transaction, runs fn with the transactional handle and
// commits when fn returns nil. Any error or panic rolls the transaction back;
// panics are rethrown. A failed commit is reported wrapped in ErrCommit.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    return repos.Boards(tx).Insert(ctx, b)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("%w: %w", ErrCommit, cerr)
		}
	}()

	err = fn(ctx, tx)
	return err
}
