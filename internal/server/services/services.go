// Package services contains server-side business logic. Each service runs a
// data-loader operation against repositories vended by a RepositoryManager
// and reports failures as the error kinds in package common.
package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/florify/florify/internal/logging"
	"github.com/florify/florify/internal/server/config"
	"github.com/florify/florify/internal/server/repositories/repomanager"
	"github.com/florify/florify/internal/server/validation"
)

// store is the plumbing shared by every service.
type store struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validator   *validation.Validator
	log         logging.Logger
	timeout     time.Duration
}

func newStore(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) store {
	if log == nil {
		log = logging.Discard()
	}
	return store{
		db:          db,
		repomanager: m,
		validator:   validation.New(),
		log:         log,
		timeout:     cfg.QueryTimeout,
	}
}

// opContext detaches ctx from the caller's cancellation, so an issued write
// completes even if the caller goes away, and bounds it by the query timeout.
func (s *store) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// DataLoader is the single entry point used by the HTTP API and the admin
// CLI. It bundles every service over one connection pool.
type DataLoader struct {
	*UserService
	*AccessService
	*BoardService
	*BookmarkService
	*PlantService
	*PlantPhotoService
}

// NewDataLoader wires all services. opts customize the UserService.
func NewDataLoader(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger, opts ...UserOption) *DataLoader {
	return &DataLoader{
		UserService:       NewUserService(db, m, cfg, log, opts...),
		AccessService:     NewAccessService(db, m, cfg, log),
		BoardService:      NewBoardService(db, m, cfg, log),
		BookmarkService:   NewBookmarkService(db, m, cfg, log),
		PlantService:      NewPlantService(db, m, cfg, log),
		PlantPhotoService: NewPlantPhotoService(db, m, cfg, log),
	}
}
