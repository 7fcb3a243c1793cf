package dbx

import (
	"context"
	"errors"
	"fmt"

	"github.com/florify/florify/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes we react to.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeQueryCanceled       = "57014"
)

// IsUniqueViolation reports whether err carries a duplicate-key signal.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsForeignKeyViolation reports whether err was caused by a missing parent row.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// Classify maps an infrastructure failure onto common.ErrTimeout or
// common.ErrStorage, keeping the original error in the chain.
// Domain errors (anything already matching a common sentinel) pass through.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case isDomain(err):
		return err
	case errors.Is(err, context.DeadlineExceeded), hasCode(err, codeQueryCanceled):
		return fmt.Errorf("%w: %w", common.ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
}

func isDomain(err error) bool {
	for _, target := range []error{
		common.ErrorNotFound,
		common.ErrDuplicateEmail,
		common.ErrInvalidCredentials,
		common.ErrAccessDenied,
		common.ErrValidation,
		common.ErrTimeout,
		common.ErrStorage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
