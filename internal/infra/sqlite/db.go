// Package sqlite implements the repositories on top of an SQLite file via sqlx.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver registered by go-sqlite3.
const DriverName = "sqlite3"

// Open connects to the database file at path, creating its directory.
// ":memory:" opens a private in-memory database.
func Open(path string) (*sqlx.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect(DriverName, path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// SQLite allows a single writer; one connection also keeps an in-memory database alive.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// withinTx runs fn in a transaction, rolling back when fn fails.
func withinTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}
