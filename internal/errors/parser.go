package errors

import (
	stderrors "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes handled explicitly
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ParseError classifies a raw storage error. context is a short description of
// the operation, e.g. "registration" or "create location".
func ParseError(err error, context string) *Error {
	if err == nil {
		return Persistence(nil)
	}

	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFound(ResourceNotFound, notFoundMessage(context)).Wrap(err)
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return NewConflict(ResourceAlreadyExists, "the record already exists").Wrap(err)
		case pgForeignKeyViolation:
			if strings.Contains(strings.ToLower(pgErr.Message), "still referenced") {
				return NewConflict(ResourceConflict, "the record is still referenced by other data").Wrap(err)
			}
			return NewNotFound(ResourceNotFound, "a referenced record does not exist").Wrap(err)
		case pgNotNullViolation:
			return NewValidation(ValidationRequired, "a required field is missing").Wrap(err)
		case pgCheckViolation:
			return NewValidation(ValidationInvalidInput, "a field value is out of range").Wrap(err)
		}
		return Persistence(err)
	}

	// sqlite and other drivers only expose the message
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "unique constraint") || strings.Contains(lower, "duplicate key"):
		return NewConflict(ResourceAlreadyExists, "the record already exists").Wrap(err)
	case strings.Contains(lower, "foreign key constraint"):
		return NewNotFound(ResourceNotFound, "a referenced record does not exist").Wrap(err)
	}

	return Persistence(err)
}

func notFoundMessage(context string) string {
	lower := strings.ToLower(context)
	switch {
	case strings.Contains(lower, "registration"):
		return "registration not found"
	case strings.Contains(lower, "location"):
		return "location not found"
	case strings.Contains(lower, "promotion"):
		return "promotion not found"
	case strings.Contains(lower, "company"):
		return "company not found"
	case strings.Contains(lower, "unit"):
		return "unit not found"
	}
	return "the requested resource was not found"
}
