package sessions

import (
	"context"

	"github.com/florify/florify/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, token string, userID int64) error
	// GetUserByToken returns common.ErrorNotFound when no session matches.
	GetUserByToken(ctx context.Context, token string) (*models.User, error)
	Delete(ctx context.Context, token string) error
}
