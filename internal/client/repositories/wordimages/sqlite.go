package wordimages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

const selectColumns = `select id, text, image_data, board_id, created_at from word_images`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWordImage(s rowScanner) (models.WordImage, error) {
	var w models.WordImage
	if err := s.Scan(&w.ID, &w.Text, &w.ImageData, &w.BoardID, &w.CreatedAt); err != nil {
		return models.WordImage{}, err
	}
	w.CreatedAt = w.CreatedAt.UTC()
	return w, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, w *models.WordImage) error {
	query := `insert into word_images (id, text, image_data, board_id, created_at) values (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, w.ID, w.Text, w.ImageData, w.BoardID, w.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert word image %s: %w", w.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WordImage, error) {
	w, err := scanWordImage(r.db.QueryRowContext(ctx, selectColumns+` where id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word image %s: %w", id, err)
	}
	return &w, nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]models.WordImage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select word images: %w", err)
	}
	defer rows.Close()

	var result []models.WordImage
	for rows.Next() {
		w, err := scanWordImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan word image row: %w", err)
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate word image rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.WordImage, error) {
	result := make(map[uuid.UUID]models.WordImage, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	list, err := r.query(ctx, selectColumns+` where id in (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	for _, w := range list {
		result[w.ID] = w
	}
	return result, nil
}

func (r *SQLiteRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]models.WordImage, error) {
	return r.query(ctx, selectColumns+` where board_id=? order by created_at, rowid`, boardID)
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `delete from word_images where id=?`, id); err != nil {
		return fmt.Errorf("failed to delete word image %s: %w", id, err)
	}
	return nil
}
