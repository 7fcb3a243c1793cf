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

type BoardService struct {
	store
}

func NewBoardService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *BoardService {
	return &BoardService{store: newStore(db, m, cfg, log)}
}

func (s *BoardService) GetBoard(ctx context.Context, id int64) (*models.Board, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	b, err := s.repomanager.Boards(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return b, nil
}

// ListBoards returns one page of the owner's boards ordered by id.
func (s *BoardService) ListBoards(ctx context.Context, ownerID int64, page models.Page) ([]models.Board, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	list, err := s.repomanager.Boards(s.db).ListByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return list, nil
}

// CreateBoard validates b, inserts it and returns the stored row.
func (s *BoardService) CreateBoard(ctx context.Context, b models.NewBoard) (*models.Board, error) {
	if err := s.validator.Board(b); err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	out, err := dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Board, error) {
		repo := s.repomanager.Boards(tx)
		id, err := repo.Create(ctx, b)
		if err != nil {
			return nil, err
		}
		return repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, dbx.Classify(err)
	}

	s.log.Info(ctx, "board created", "board_id", out.ID, "owner_id", out.OwnerID)
	return out, nil
}

// UpdateBoard applies the non-nil fields of u and returns the stored row.
func (s *BoardService) UpdateBoard(ctx context.Context, id int64, u models.BoardUpdate) (*models.Board, error) {
	if err := s.validator.BoardUpdate(u); err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	out, err := dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Board, error) {
		repo := s.repomanager.Boards(tx)
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

func (s *BoardService) DeleteBoard(ctx context.Context, id int64) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.repomanager.Boards(s.db).Delete(ctx, id); err != nil {
		return dbx.Classify(err)
	}
	s.log.Info(ctx, "board deleted", "board_id", id)
	return nil
}
