package persistence

import (
	"errors"

	"github.com/ecommerce/product-service/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err was raised by a unique constraint
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// storageError converts a storage fault into a Database domain error
func storageError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := shared.AsDomainError(err); ok {
		return err
	}
	return shared.DatabaseFailure(operation, err)
}

// writeError is storageError for inserts and updates: a unique violation on
// the name column becomes a Conflict for entity/name.
func writeError(operation, entity, name string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return shared.Conflict(entity, name)
	}
	return storageError(operation, err)
}
