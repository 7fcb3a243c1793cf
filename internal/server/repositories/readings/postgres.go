// Package readings implements PostgreSQL storage for plant sensor readings.
package readings

import (
	"context"
	"fmt"

	"github.com/florify/florify/internal/common"
	"github.com/florify/florify/internal/dbx"
	"github.com/florify/florify/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends a reading. An unknown plant yields common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, reading models.NewReading) (int64, error) {
	query :=
		`INSERT INTO data (plant_id, type, value)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query, reading.PlantID, reading.Type, reading.Value).Scan(&id)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return 0, common.ErrorNotFound
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) ListByPlant(ctx context.Context, plantID int64) ([]models.Reading, error) {
	query :=
		`SELECT id, plant_id, type, value, created_at FROM data
		 WHERE plant_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, plantID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Reading{}
	for rows.Next() {
		var rd models.Reading
		if err := rows.Scan(&rd.ID, &rd.PlantID, &rd.Type, &rd.Value, &rd.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rd)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
