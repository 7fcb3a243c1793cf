package boards

import (
	"context"

	"github.com/florify/florify/internal/server/models"
)

// Repository stores boards. Mutations do not check ownership; callers run
// ExistsForOwner first.
type Repository interface {
	Create(ctx context.Context, b models.NewBoard) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Board, error)
	ListByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.Board, error)
	Update(ctx context.Context, id int64, u models.BoardUpdate) error
	Delete(ctx context.Context, id int64) error
	ExistsForOwner(ctx context.Context, id, ownerID int64) (bool, error)
}
