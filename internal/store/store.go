package store

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"medrecord-api/internal/apperr"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// notFound converts pgx's no-rows into the NotFound kind; everything else
// is a store failure with the cause kept for server-side logs.
func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.New(apperr.NotFound, what+" not found")
	}
	return storeErr(err)
}

func storeErr(err error) error {
	return apperr.Wrap(apperr.StoreFailure, "database error", err)
}

// isExclusionViolation reports whether err is the overlap constraint
// firing, i.e. a booking race the application-level check missed.
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
