package phrases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/keijiban-app/keijiban/internal/client/models"
	"github.com/keijiban-app/keijiban/internal/common"
	"github.com/keijiban-app/keijiban/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// Insert issues several statements; callers wanting atomicity bind it to a *sql.Tx.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, p *models.Phrase) error {
	_, err := r.db.ExecContext(ctx,
		`insert into phrases (id, text, created_at) values (?, ?, ?)`,
		p.ID, p.Text, p.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert phrase %s: %w", p.ID, err)
	}

	for _, rel := range p.Relations {
		_, err := r.db.ExecContext(ctx,
			`insert into phrase_word_images (id, phrase_id, word_image_id, ord) values (?, ?, ?, ?)`,
			rel.ID, p.ID, rel.WordImageID, rel.Order)
		if err != nil {
			return fmt.Errorf("failed to insert phrase relation %d: %w", rel.Order, err)
		}
	}

	for _, boardID := range p.BoardIDs {
		_, err := r.db.ExecContext(ctx,
			`insert into phrase_boards (phrase_id, board_id) values (?, ?)`,
			p.ID, boardID)
		if err != nil {
			return fmt.Errorf("failed to link phrase to board %s: %w", boardID, err)
		}
	}

	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Phrase, error) {
	p := &models.Phrase{}
	err := r.db.QueryRowContext(ctx, `select id, text, created_at from phrases where id=?`, id).
		Scan(&p.ID, &p.Text, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get phrase %s: %w", id, err)
	}
	p.CreatedAt = p.CreatedAt.UTC()

	if err := r.fill(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLiteRepository) fill(ctx context.Context, p *models.Phrase) error {
	boards, err := r.boardIDs(ctx, p.ID)
	if err != nil {
		return err
	}
	p.BoardIDs = boards

	rels, err := r.relations(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Relations = rels
	return nil
}

func (r *SQLiteRepository) boardIDs(ctx context.Context, phraseID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx,
		`select board_id from phrase_boards where phrase_id=? order by rowid`, phraseID)
	if err != nil {
		return nil, fmt.Errorf("failed to select phrase boards: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan phrase board row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate phrase board rows: %w", err)
	}
	return ids, nil
}

func (r *SQLiteRepository) relations(ctx context.Context, phraseID uuid.UUID) ([]models.PhraseWordImage, error) {
	query := `
		select r.id, r.word_image_id, r.ord,
		       w.text, w.image_data, w.board_id, w.created_at
		from phrase_word_images r
		left join word_images w on w.id = r.word_image_id
		where r.phrase_id=?
		order by r.ord`
	rows, err := r.db.QueryContext(ctx, query, phraseID)
	if err != nil {
		return nil, fmt.Errorf("failed to select phrase relations: %w", err)
	}
	defer rows.Close()

	var result []models.PhraseWordImage
	for rows.Next() {
		var (
			rel       models.PhraseWordImage
			text      sql.NullString
			data      []byte
			boardID   uuid.NullUUID
			createdAt sql.NullTime
		)
		if err := rows.Scan(&rel.ID, &rel.WordImageID, &rel.Order, &text, &data, &boardID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan phrase relation row: %w", err)
		}
		rel.PhraseID = phraseID
		if rel.WordImageID.Valid && text.Valid {
			rel.WordImage = &models.WordImage{
				ID:        rel.WordImageID.UUID,
				Text:      text.String,
				ImageData: data,
				BoardID:   boardID.UUID,
				CreatedAt: createdAt.Time.UTC(),
			}
		}
		result = append(result, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate phrase relation rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]*models.Phrase, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select phrases: %w", err)
	}

	var result []*models.Phrase
	for rows.Next() {
		p := &models.Phrase{}
		if err := rows.Scan(&p.ID, &p.Text, &p.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan phrase row: %w", err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate phrase rows: %w", err)
	}
	// rows must be released before the per-phrase queries run on a
	// single-connection database.
	rows.Close()

	for _, p := range result {
		if err := r.fill(ctx, p); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *SQLiteRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*models.Phrase, error) {
	query := `
		select p.id, p.text, p.created_at
		from phrases p
		join phrase_boards pb on pb.phrase_id = p.id
		where pb.board_id=?
		order by p.created_at desc, p.rowid desc`
	return r.list(ctx, query, boardID)
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]*models.Phrase, error) {
	return r.list(ctx, `select id, text, created_at from phrases order by created_at desc, rowid desc`)
}

// DeleteByID expects exactly one row to be affected.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `delete from phrases where id=?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete phrase %s: %w", id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return fmt.Errorf("delete phrase %s: %w", id, common.ErrNotFound)
	}
	return nil
}
