package services

import (
	"context"
	"database/sql"

	"github.com/florify/florify/internal/dbx"
	"github.com/florify/florify/internal/logging"
	"github.com/florify/florify/internal/server/config"
	"github.com/florify/florify/internal/server/models"
	"github.com/florify/florify/internal/server/repositories/repomanager"
)

// BookmarkService stores bookmarks. Bookmark payloads carry no validation
// rules beyond their field set.
type BookmarkService struct {
	store
}

func NewBookmarkService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *BookmarkService {
	return &BookmarkService{store: newStore(db, m, cfg, log)}
}

func (s *BookmarkService) GetBookmark(ctx context.Context, id int64) (*models.Bookmark, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	b, err := s.repomanager.Bookmarks(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return b, nil
}

func (s *BookmarkService) ListBookmarks(ctx context.Context, boardID int64, page models.Page) ([]models.Bookmark, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	list, err := s.repomanager.Bookmarks(s.db).ListByBoard(ctx, boardID, page)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return list, nil
}

func (s *BookmarkService) CreateBookmark(ctx context.Context, b models.NewBookmark) (*models.Bookmark, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	out, err := dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Bookmark, error) {
		repo := s.repomanager.Bookmarks(tx)
		id, err := repo.Create(ctx, b)
		if err != nil {
			return nil, err
		}
		return repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, dbx.Classify(err)
	}

	s.log.Debug(ctx, "bookmark created", "bookmark_id", out.ID, "board_id", out.BoardID)
	return out, nil
}

func (s *BookmarkService) UpdateBookmark(ctx context.Context, id int64, u models.BookmarkUpdate) (*models.Bookmark, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	out, err := dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Bookmark, error) {
		repo := s.repomanager.Bookmarks(tx)
		if err := repo.Update(ctx, id, u); err != nil {
			return nil, err
		}
		return repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return out, nil
}

func (s *BookmarkService) DeleteBookmark(ctx context.Context, id int64) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.repomanager.Bookmarks(s.db).Delete(ctx, id); err != nil {
		return dbx.Classify(err)
	}
	return nil
}
