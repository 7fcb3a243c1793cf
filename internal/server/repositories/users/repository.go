package users

import (
	"context"

	"github.com/florify/florify/internal/server/models"
)

// Repository persists user accounts. Create expects NewUser.Password to
// already hold the password hash.
type Repository interface {
	Create(ctx context.Context, user models.NewUser) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetCredentialsByEmail(ctx context.Context, email string) (*models.UserCredentials, error)
}
