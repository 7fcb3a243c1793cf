// Package bookmarks implements PostgreSQL storage for bookmarks attached to
// boards.
package bookmarks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/florify/florify/internal/common"
	"github.com/florify/florify/internal/dbx"
	"github.com/florify/florify/internal/server/models"
)

const bookmarkColumns = `id, board_id, title, url, description, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBookmark(s scanner) (*models.Bookmark, error) {
	b := &models.Bookmark{}
	err := s.Scan(&b.ID, &b.BoardID, &b.Title, &b.URL, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Create inserts a bookmark. An unknown board yields common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, b models.NewBookmark) (int64, error) {
	query :=
		`INSERT INTO bookmarks (board_id, title, url, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query, b.BoardID, b.Title, b.URL, b.Description).Scan(&id)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks WHERE id = $1`

	b, err := scanBookmark(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return b, nil
}

func (r *PostgresRepository) ListByBoard(ctx context.Context, boardID int64, page models.Page) ([]models.Bookmark, error) {
	query := `SELECT ` + bookmarkColumns + ` FROM bookmarks
		 WHERE board_id = $1
		 ORDER BY id
		 LIMIT $2 OFFSET $3
		 `

	rows, err := r.db.QueryContext(ctx, query, boardID, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Bookmark{}
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, u models.BookmarkUpdate) error {
	query :=
		`UPDATE bookmarks
		 SET title = COALESCE($1, title),
		     url = COALESCE($2, url),
		     description = COALESCE($3, description),
		     updated_at = now()
		 WHERE id = $4
		 `

	res, err := r.db.ExecContext(ctx, query, u.Title, u.URL, u.Description, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ExistsForOwner(ctx context.Context, id, ownerID int64) (bool, error) {
	query :=
		`SELECT EXISTS (
		     SELECT 1 FROM bookmarks bm
		     JOIN boards b ON b.id = bm.board_id
		     WHERE bm.id = $1 AND b.owner_id = $2
		 )`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return ok, nil
}
