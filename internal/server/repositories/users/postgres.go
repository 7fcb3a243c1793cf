// Package users implements PostgreSQL storage for user accounts.
package users

import (
	"context"
	"database/sql"
	"errors"
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

// Create inserts a user and returns its generated id. A duplicate email
// yields common.ErrDuplicateEmail.
func (r *PostgresRepository) Create(ctx context.Context, user models.NewUser) (int64, error) {

	query :=
		`INSERT INTO users (email, phone, password)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	var id int64
	err := r.db.QueryRowContext(ctx, query, user.Email, user.Phone, user.Password).Scan(&id)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return 0, common.ErrDuplicateEmail
		}
		return 0, fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, email, phone, created_at, updated_at FROM users
		 WHERE id = $1
		 `

	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.Phone, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}

func (r *PostgresRepository) GetCredentialsByEmail(ctx context.Context, email string) (*models.UserCredentials, error) {
	query :=
		`SELECT id, password FROM users
		 WHERE email = $1
		 `

	c := &models.UserCredentials{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&c.UserID, &c.PasswordHash)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}
