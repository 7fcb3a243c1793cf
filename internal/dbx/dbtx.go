// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// transaction helpers, and the mapping of driver failures onto the error
// kinds in package common.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// InTx runs fn inside a transaction and returns its result. The transaction
// commits when fn succeeds and rolls back when fn fails or panics; a failed
// rollback is joined to fn's error. Panics are rethrown after rollback.
//
//	board, err := dbx.InTx(ctx, db, func(ctx context.Context, tx dbx.DBTX) (*models.Board, error) {
//	    id, err := m.Boards(tx).Create(ctx, b)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return m.Boards(tx).GetByID(ctx, id)
//	})
func InTx[T any](ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx DBTX) (T, error)) (out T, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return out, fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			var zero T
			out, err = zero, fmt.Errorf("commit: %w", cErr)
		}
	}()

	return fn(ctx, tx)
}
