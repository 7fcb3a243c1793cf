// Package plants implements PostgreSQL storage for plant records.
package plants

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/florify/florify/internal/common"
	"github.com/florify/florify/internal/dbx"
	"github.com/florify/florify/internal/server/models"
)

const plantColumns = `id, user_id, nickname, name, description,
		 maxtemp, mintemp, maxph, minph, maxhum, minhum, maxlux, minlux,
		 photo_key, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlant(s scanner) (*models.Plant, error) {
	p := &models.Plant{}
	err := s.Scan(
		&p.ID, &p.UserID, &p.Nickname, &p.Name, &p.Description,
		&p.MaxTemp, &p.MinTemp, &p.MaxPH, &p.MinPH, &p.MaxHum, &p.MinHum, &p.MaxLux, &p.MinLux,
		&p.PhotoKey, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p models.NewPlant) (int64, error) {
	query :=
		`INSERT INTO plants (user_id, nickname, name, description,
		     maxtemp, mintemp, maxph, minph, maxhum, minhum, maxlux, minlux)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.Nickname, p.Name, p.Description,
		p.MaxTemp, p.MinTemp, p.MaxPH, p.MinPH, p.MaxHum, p.MinHum, p.MaxLux, p.MinLux,
	).Scan(&id)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Plant, error) {
	query := `SELECT ` + plantColumns + ` FROM plants WHERE id = $1`

	p, err := scanPlant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.Plant, error) {
	query := `SELECT ` + plantColumns + ` FROM plants WHERE user_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Plant{}
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, u models.PlantUpdate) error {
	query :=
		`UPDATE plants
		 SET nickname = COALESCE($1, nickname),
		     name = COALESCE($2, name),
		     description = COALESCE($3, description),
		     maxtemp = COALESCE($4, maxtemp),
		     mintemp = COALESCE($5, mintemp),
		     maxph = COALESCE($6, maxph),
		     minph = COALESCE($7, minph),
		     maxhum = COALESCE($8, maxhum),
		     minhum = COALESCE($9, minhum),
		     maxlux = COALESCE($10, maxlux),
		     minlux = COALESCE($11, minlux),
		     updated_at = now()
		 WHERE id = $12
		 `

	res, err := r.db.ExecContext(ctx, query,
		u.Nickname, u.Name, u.Description,
		u.MaxTemp, u.MinTemp, u.MaxPH, u.MinPH, u.MaxHum, u.MinHum, u.MaxLux, u.MinLux,
		id,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireRow(res)
}

// SetPhotoKey records the object-storage key of the plant's photo.
func (r *PostgresRepository) SetPhotoKey(ctx context.Context, id int64, key string) error {
	query := `UPDATE plants SET photo_key = $1, updated_at = now() WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, key, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireRow(res)
}

// ClearPhotoKey unsets the photo key if it still equals key. A plant whose
// key has since changed, or that no longer exists, is left alone.
func (r *PostgresRepository) ClearPhotoKey(ctx context.Context, id int64, key string) error {
	query := `UPDATE plants SET photo_key = NULL, updated_at = now() WHERE id = $1 AND photo_key = $2`

	if _, err := r.db.ExecContext(ctx, query, id, key); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plants WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ExistsForOwner(ctx context.Context, id, userID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM plants WHERE id = $1 AND user_id = $2)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return ok, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
