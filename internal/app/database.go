package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aliskhannn/langalarm/internal/config"
	"github.com/aliskhannn/langalarm/internal/infra/migrations"
	"github.com/aliskhannn/langalarm/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/langalarm/internal/infra/postgres/repository"
	"github.com/aliskhannn/langalarm/internal/infra/sqlite"
	"github.com/aliskhannn/langalarm/internal/service"
)

// Database is an open connection to the configured driver together with its repositories.
type Database struct {
	Std     *sql.DB // database/sql handle used by migrations
	Dialect string  // migrations dialect

	Decks    service.DeckRepository
	Words    service.WordRepository
	Alarms   service.AlarmRepository
	Settings service.SettingsRepository
	Sounds   service.SoundRepository

	close func()
}

// OpenDatabase connects to the database selected by cfg.DB.Driver.
func OpenDatabase(ctx context.Context, cfg config.DB) (*Database, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &Database{
			Std:      db.DB,
			Dialect:  migrations.DialectSQLite,
			Decks:    sqlite.NewDeckRepository(db),
			Words:    sqlite.NewWordRepository(db),
			Alarms:   sqlite.NewAlarmRepository(db),
			Settings: sqlite.NewSettingsRepository(db),
			Sounds:   sqlite.NewSoundRepository(db),
			close:    func() { _ = db.Close() },
		}, nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.MaxConnections),
			MaxConnLifetime: cfg.MaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		std := postgres.StdDB(pool)
		return &Database{
			Std:      std,
			Dialect:  migrations.DialectPostgres,
			Decks:    pgrepo.NewDeckRepository(pool),
			Words:    pgrepo.NewWordRepository(pool),
			Alarms:   pgrepo.NewAlarmRepository(pool),
			Settings: pgrepo.NewSettingsRepository(pool),
			Sounds:   pgrepo.NewSoundRepository(pool),
			close: func() {
				_ = std.Close()
				pool.Close()
			},
		}, nil

	default:
		return nil, fmt.Errorf("%w: unknown database driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}

func (d *Database) Close() {
	if d.close != nil {
		d.close()
	}
}
