package repository

import (
	"context"
	"errors"
	"fmt"

	records_errors "student-records/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the common interface of *pgxpool.Pool and pgxmock.PgxPoolIface.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// mapError converts pgx errors to domain errors.
// Context errors pass through unchanged.
func mapError(err error, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("student %s: %w", id, err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("student %s: %w", id, records_errors.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "22P02": // invalid_text_representation, e.g. malformed uuid
			return fmt.Errorf("student %s: %w", id, records_errors.ErrNotFound)
		case "23502": // not_null_violation
			return fmt.Errorf("student %s: %w", id, records_errors.ErrInvalidInput)
		}
	}
	return fmt.Errorf("student %s: %w", id, err)
}
