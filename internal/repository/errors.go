package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"go-rbac-service/pkg/apierror"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// wrapStoreErr converts pool-level failures into a retryable UNAVAILABLE and
// keeps everything else wrapped with the failing operation's name. A bounded
// acquire or query deadline must never surface as an opaque hang or a 500.
func wrapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apierror.Unavailable("storage temporarily unavailable")
	}

	return fmt.Errorf("%s: %w", op, err)
}
