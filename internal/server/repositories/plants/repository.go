package plants

import (
	"context"

	"github.com/florify/florify/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p models.NewPlant) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Plant, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Plant, error)
	Update(ctx context.Context, id int64, u models.PlantUpdate) error
	Delete(ctx context.Context, id int64) error
	ExistsForOwner(ctx context.Context, id, userID int64) (bool, error)
	SetPhotoKey(ctx context.Context, id int64, key string) error
	ClearPhotoKey(ctx context.Context, id int64, key string) error
}
