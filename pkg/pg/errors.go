package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToConnect       = errors.New("pg: failed to open db connection")
	ErrFailedToParseConfig   = errors.New("pg: failed to parse db config")
	ErrHealthcheckFailed     = errors.New("pg: healthcheck failed")
	ErrFailedToMigrate       = errors.New("pg: failed to apply migrations")
	ErrMigrationsPathMissing = errors.New("pg: migrations path not provided")
)

// IsNotFoundError detects pgx.ErrNoRows for consistent not-found handling.
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError detects unique constraint violations (SQLSTATE 23505).
func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
