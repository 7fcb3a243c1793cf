package bookmarks

import (
	"context"

	"github.com/florify/florify/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, b models.NewBookmark) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Bookmark, error)
	ListByBoard(ctx context.Context, boardID int64, page models.Page) ([]models.Bookmark, error)
	Update(ctx context.Context, id int64, u models.BookmarkUpdate) error
	Delete(ctx context.Context, id int64) error
	// ExistsForOwner reports whether the bookmark's board belongs to ownerID.
	ExistsForOwner(ctx context.Context, id, ownerID int64) (bool, error)
}
