package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/nikolayk812/sqlite-cart/internal/domain"
)

// integrity_constraint_violation
const pgConstraintClass = "23"

func storeError(op string, err error) error {
	kind := domain.ErrStore
	if isConstraint(err) {
		kind = domain.ErrConstraint
	}

	return &domain.StoreError{Op: op, Kind: kind, Err: err}
}

func isConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, pgConstraintClass)
	}

	return false
}
