package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/infra/postgres"
	repo "github.com/aliskhannn/langalarm/internal/repository"
)

// SettingsRepository stores the single settings row.
type SettingsRepository struct {
	db postgres.DBTX
}

// NewSettingsRepository creates a new SettingsRepository with the provided database pool.
func NewSettingsRepository(db postgres.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves the settings.
func (r *SettingsRepository) Get(ctx context.Context) (*entities.Settings, error) {
	query := `
		SELECT required_correct, buffer_size, max_trials, active_sound, updated_at
		FROM settings
		WHERE id = 1
	`

	var settings entities.Settings
	err := r.db.QueryRow(ctx, query).Scan(
		&settings.RequiredCorrect,
		&settings.BufferSize,
		&settings.MaxTrials,
		&settings.ActiveSound,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	return &settings, nil
}

// Save creates or replaces the settings.
func (r *SettingsRepository) Save(ctx context.Context, settings *entities.Settings) error {
	query := `
		INSERT INTO settings (id, required_correct, buffer_size, max_trials, active_sound, updated_at)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			required_correct = EXCLUDED.required_correct,
			buffer_size = EXCLUDED.buffer_size,
			max_trials = EXCLUDED.max_trials,
			active_sound = EXCLUDED.active_sound,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		settings.RequiredCorrect,
		settings.BufferSize,
		settings.MaxTrials,
		settings.ActiveSound,
		settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	return nil
}
