// Package boards implements PostgreSQL storage for user boards.
package boards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/florify/florify/internal/common"
	"github.com/florify/florify/internal/dbx"
	"github.com/florify/florify/internal/server/models"
)

const boardColumns = `id, owner_id, title, description, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBoard(s scanner) (*models.Board, error) {
	b := &models.Board{}
	if err := s.Scan(&b.ID, &b.OwnerID, &b.Title, &b.Description, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PostgresRepository) Create(ctx context.Context, b models.NewBoard) (int64, error) {
	query :=
		`INSERT INTO boards (owner_id, title, description)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	var id int64
	if err := r.db.QueryRowContext(ctx, query, b.OwnerID, b.Title, b.Description).Scan(&id); err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards WHERE id = $1`

	b, err := scanBoard(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return b, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards
		 WHERE owner_id = $1
		 ORDER BY id
		 LIMIT $2 OFFSET $3
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Board{}
	for rows.Next() {
		b, err := scanBoard(rows)
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

// Update sets the non-nil fields of u. A missing board yields
// common.ErrorNotFound.
func (r *PostgresRepository) Update(ctx context.Context, id int64, u models.BoardUpdate) error {
	query :=
		`UPDATE boards
		 SET title = COALESCE($1, title),
		     description = COALESCE($2, description),
		     updated_at = now()
		 WHERE id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, u.Title, u.Description, id)
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
	if _, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ExistsForOwner(ctx context.Context, id, ownerID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM boards WHERE id = $1 AND owner_id = $2)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return ok, nil
}
