package gorm

import (
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
	gormdb "gorm.io/gorm"
)

// Postgres error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
)

func isNotFoundErr(err error) bool {
	return errors.Is(err, gormdb.ErrRecordNotFound)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCodeUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCodeForeignKeyViolation
}
