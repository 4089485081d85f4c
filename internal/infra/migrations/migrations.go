// Package migrations applies the embedded database schema with goose.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed postgres/*.sql sqlite/*.sql
var schema embed.FS

// Supported goose dialects.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// goose keeps its configuration in package globals.
var mu sync.Mutex

// zapGooseLogger forwards goose output to zap.
type zapGooseLogger struct {
	log *zap.SugaredLogger
}

func (l zapGooseLogger) Printf(format string, v ...any) {
	l.log.Infof(format, v...)
}

// Fatalf logs at error level and leaves exiting to the caller.
func (l zapGooseLogger) Fatalf(format string, v ...any) {
	l.log.Errorf(format, v...)
}

func setup(dialect string, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dir, err := dirFor(dialect)
	if err != nil {
		return "", err
	}

	goose.SetBaseFS(schema)
	goose.SetLogger(zapGooseLogger{log: logger.Sugar()})
	if err := goose.SetDialect(dialect); err != nil {
		return "", fmt.Errorf("set goose dialect: %w", err)
	}
	return dir, nil
}

func dirFor(dialect string) (string, error) {
	switch dialect {
	case DialectPostgres:
		return "postgres", nil
	case DialectSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported migration dialect %q", dialect)
	}
}

// Up applies all pending migrations.
func Up(db *sql.DB, dialect string, logger *zap.Logger) error {
	mu.Lock()
	defer mu.Unlock()

	dir, err := setup(dialect, logger)
	if err != nil {
		return err
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back the latest migration.
func Down(db *sql.DB, dialect string, logger *zap.Logger) error {
	mu.Lock()
	defer mu.Unlock()

	dir, err := setup(dialect, logger)
	if err != nil {
		return err
	}
	if err := goose.Down(db, dir); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Status logs the state of every migration.
func Status(db *sql.DB, dialect string, logger *zap.Logger) error {
	mu.Lock()
	defer mu.Unlock()

	dir, err := setup(dialect, logger)
	if err != nil {
		return err
	}
	if err := goose.Status(db, dir); err != nil {
		return fmt.Errorf("migrate status: %w", err)
	}
	return nil
}

// Version returns the current schema version.
func Version(db *sql.DB, dialect string) (int64, error) {
	mu.Lock()
	defer mu.Unlock()

	if _, err := setup(dialect, nil); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(db)
}
