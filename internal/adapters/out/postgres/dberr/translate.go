// Package dberr maps database driver failures onto the errs taxonomy so that
// callers above the repositories never see GORM or pgx error types.
package dberr

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"qrcafe/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Translate classifies err for the named store.
//
// Deadlines, cancellations and connection failures become ServiceIsUnavailableError.
// Unique violations become ObjectAlreadyExistsError for (paramName, id).
// Missing rows become ObjectNotFoundError for (paramName, id).
// Anything else is returned unchanged.
func Translate(err error, store string, paramName string, id any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NewObjectNotFoundErrorWithCause(paramName, id, err)
	case errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err):
		return errs.NewObjectAlreadyExistsErrorWithCause(paramName, id, err)
	case IsUnavailable(err):
		return errs.NewServiceIsUnavailableErrorWithCause(store, err)
	default:
		return err
	}
}

// IsUnavailable reports whether err means the database could not be reached in time.
func IsUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, driver.ErrBadConn) ||
		pgconn.Timeout(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
