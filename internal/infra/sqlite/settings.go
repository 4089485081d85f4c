package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/repository"
)

type SettingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context) (*entities.Settings, error) {
	var s entities.Settings
	err := r.db.GetContext(ctx, &s, `
		SELECT required_correct, buffer_size, max_trials, active_sound, updated_at
		FROM settings
		WHERE id = 1
	`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &s, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s *entities.Settings) error {
	query := `
		INSERT INTO settings (id, required_correct, buffer_size, max_trials, active_sound, updated_at)
		VALUES (1, :required_correct, :buffer_size, :max_trials, :active_sound, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			required_correct = excluded.required_correct,
			buffer_size = excluded.buffer_size,
			max_trials = excluded.max_trials,
			active_sound = excluded.active_sound,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
