package services

import (
	"context"
	"database/sql"

	"github.com/florify/florify/internal/common"
	"github.com/florify/florify/internal/dbx"
	"github.com/florify/florify/internal/logging"
	"github.com/florify/florify/internal/server/config"
	"github.com/florify/florify/internal/server/repositories/repomanager"
)

// AccessService answers ownership questions. Callers must consult it before
// mutating boards, bookmarks or plants; the record services do not.
type AccessService struct {
	store
}

func NewAccessService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *AccessService {
	return &AccessService{store: newStore(db, m, cfg, log)}
}

type ownershipCheck func(ctx context.Context, db dbx.DBTX, id, userID int64) (bool, error)

func (s *AccessService) check(ctx context.Context, exists ownershipCheck, id, userID int64) (bool, error) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	ok, err := exists(ctx, s.db, id, userID)
	if err != nil {
		return false, dbx.Classify(err)
	}
	if !ok {
		return false, common.ErrAccessDenied
	}
	return true, nil
}

// BoardOwnedBy reports true when the board exists and belongs to userID,
// and common.ErrAccessDenied otherwise.
func (s *AccessService) BoardOwnedBy(ctx context.Context, boardID, userID int64) (bool, error) {
	return s.check(ctx, func(ctx context.Context, db dbx.DBTX, id, userID int64) (bool, error) {
		return s.repomanager.Boards(db).ExistsForOwner(ctx, id, userID)
	}, boardID, userID)
}

// BookmarkOwnedBy reports true when the bookmark's board belongs to userID.
func (s *AccessService) BookmarkOwnedBy(ctx context.Context, bookmarkID, userID int64) (bool, error) {
	return s.check(ctx, func(ctx context.Context, db dbx.DBTX, id, userID int64) (bool, error) {
		return s.repomanager.Bookmarks(db).ExistsForOwner(ctx, id, userID)
	}, bookmarkID, userID)
}

func (s *AccessService) PlantOwnedBy(ctx context.Context, plantID, userID int64) (bool, error) {
	return s.check(ctx, func(ctx context.Context, db dbx.DBTX, id, userID int64) (bool, error) {
		return s.repomanager.Plants(db).ExistsForOwner(ctx, id, userID)
	}, plantID, userID)
}
