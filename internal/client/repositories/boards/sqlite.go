package boards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/client/models"
	"github.com/keijiban-app/keijiban/internal/common"
	"github.com/keijiban-app/keijiban/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `select id, name, idx, synced_at, deleted from boards`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBoard(s rowScanner) (models.Board, error) {
	var (
		b      models.Board
		synced sql.NullTime
	)
	if err := s.Scan(&b.ID, &b.Name, &b.Index, &synced, &b.IsDeleted); err != nil {
		return models.Board{}, err
	}
	if synced.Valid {
		t := synced.Time.UTC()
		b.SyncedAt = &t
	}
	return b, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string) ([]models.Board, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select boards: %w", err)
	}
	defer rows.Close()

	var result []models.Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan board row: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate board rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Board, error) {
	return r.list(ctx, selectColumns+` order by idx, name`)
}

func (r *SQLiteRepository) GetActive(ctx context.Context) ([]models.Board, error) {
	return r.list(ctx, selectColumns+` where deleted=0 order by idx, name`)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Board, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` where id=?`, id)
	b, err := scanBoard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board %s: %w", id, err)
	}
	return &b, nil
}

func syncedArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func (r *SQLiteRepository) Insert(ctx context.Context, b *models.Board) error {
	query := `insert into boards (id, name, idx, synced_at, deleted) values (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, b.ID, b.Name, b.Index, syncedArg(b.SyncedAt), b.IsDeleted)
	if err != nil {
		return fmt.Errorf("failed to insert board %s: %w", b.ID, err)
	}
	return nil
}

// Update expects exactly one row to be affected.
func (r *SQLiteRepository) Update(ctx context.Context, b *models.Board) error {
	query := `update boards set name=?, idx=?, synced_at=?, deleted=? where id=?`
	res, err := r.db.ExecContext(ctx, query, b.Name, b.Index, syncedArg(b.SyncedAt), b.IsDeleted, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update board %s: %w", b.ID, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("update board %s: %w", b.ID, common.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `delete from boards where id=?`, id); err != nil {
		return fmt.Errorf("failed to delete board %s: %w", id, err)
	}
	return nil
}
