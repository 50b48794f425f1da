// Package storage opens and initializes the backing stores for the cart.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nikolayk812/sqlite-cart/internal/migrations"
)

// OpenSQLite opens or creates the SQLite database file at path, switches it
// to WAL journaling and creates the cart table if it does not exist.
// Calling it repeatedly on the same file is safe.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("applyPragmas: %w", err)
	}

	if err := applySQLiteSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("applySQLiteSchema: %w", err)
	}

	return db, nil
}

// JournalMode reports the current journal mode, "wal" after OpenSQLite.
// It is a diagnostic hook for tests and troubleshooting.
func JournalMode(ctx context.Context, db *sql.DB) (string, error) {
	var mode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
		return "", fmt.Errorf("PRAGMA journal_mode: %w", err)
	}
	return mode, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("exec %q: %w", pragma, err)
		}
	}

	return nil
}

func applySQLiteSchema(ctx context.Context, db *sql.DB) error {
	schema, err := migrations.Schema(migrations.SQLite)
	if err != nil {
		return fmt.Errorf("migrations.Schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("exec schema: %w", err)
	}

	return nil
}
