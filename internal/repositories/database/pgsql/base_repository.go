package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/bank_ledger_api/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, unavailable("failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return unavailable("failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return unavailable("failed to rollback transaction", err)
	}
	return nil
}

func unavailable(message string, err error) error {
	return apperrors.NewAppError(503, message, fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err))
}

// translateError maps driver errors onto application errors.
// Errors raised by the server keep their meaning; anything else means the
// database could not be reached or the statement could not complete.
func translateError(err error, message string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: name has already been taken", apperrors.ErrDuplicate)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", apperrors.ErrHasDependents, pgErr.ConstraintName)
		}
		return apperrors.NewAppError(500, message, err)
	}
	return unavailable(message, err)
}
