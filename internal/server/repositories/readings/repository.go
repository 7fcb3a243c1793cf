package readings

import (
	"context"

	"github.com/florify/florify/internal/server/models"
)

// Repository stores sensor readings in the data table. Readings are never
// updated.
type Repository interface {
	Create(ctx context.Context, r models.NewReading) (int64, error)
	ListByPlant(ctx context.Context, plantID int64) ([]models.Reading, error)
}
