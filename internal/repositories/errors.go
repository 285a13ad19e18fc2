package repositories

import (
	"errors"

	apperrors "github.com/Raghu0511/canteen-backend/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the repositories react to.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgForeignKey      = "23503"
)

// storeErr classifies a driver error. Domain errors pass through unchanged,
// everything else becomes ErrStoreUnavailable with the cause attached.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.Wrap(apperrors.ErrStoreUnavailable, err)
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

func isCheckViolation(err error) bool {
	return pgCode(err) == pgCheckViolation
}

func isForeignKeyViolation(err error) bool {
	return pgCode(err) == pgForeignKey
}
