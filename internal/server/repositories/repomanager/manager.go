package repomanager

import (
	"context"
	"database/sql"

	"github.com/florify/florify/internal/dbx"
	"github.com/florify/florify/internal/server/repositories/boards"
	"github.com/florify/florify/internal/server/repositories/bookmarks"
	"github.com/florify/florify/internal/server/repositories/plants"
	"github.com/florify/florify/internal/server/repositories/readings"
	"github.com/florify/florify/internal/server/repositories/sessions"
	"github.com/florify/florify/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Boards(db dbx.DBTX) boards.Repository
	Bookmarks(db dbx.DBTX) bookmarks.Repository
	Plants(db dbx.DBTX) plants.Repository
	Readings(db dbx.DBTX) readings.Repository
}
