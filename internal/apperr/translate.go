package apperr

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes that carry domain meaning at the store boundary.
const (
	sqlstateUniqueViolation     = "23505"
	sqlstateForeignKeyViolation = "23503"
	sqlstateCheckViolation      = "23514"
)

// FromStore translates a store-level error into an application error.
// entity names the row being read or written and is used in messages.
// Conflict and not-found signals come from constraint enforcement, never
// from a prior existence check.
func FromStore(err error, entity string) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound("%s not found", entity)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlstateUniqueViolation:
			return &Error{Kind: KindConflict, Message: entity + " already exists", Err: err}
		case sqlstateForeignKeyViolation:
			// An insert hit a missing referenced row.
			return &Error{Kind: KindNotFound, Message: "referenced " + entity + " not found", Err: err}
		case sqlstateCheckViolation:
			return &Error{Kind: KindInvalidArgument, Message: "invalid " + entity, Err: err}
		}
		// Class 22 is a data exception: a value the column type cannot
		// hold, such as a malformed uuid literal. The request can never
		// succeed, so it is the caller's fault, not an outage.
		if strings.HasPrefix(pgErr.Code, "22") {
			return &Error{Kind: KindInvalidArgument, Message: "invalid " + entity, Err: err}
		}
		// Class 08 covers connection exceptions.
		if strings.HasPrefix(pgErr.Code, "08") {
			return Unavailable(err)
		}
		return &Error{Kind: KindUnavailable, Message: "store error", Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Unavailable(err)
	}

	return Unavailable(err)
}
