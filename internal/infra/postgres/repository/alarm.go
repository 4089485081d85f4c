package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/infra/postgres"
	repo "github.com/aliskhannn/langalarm/internal/repository"
)

// AlarmRepository provides access to alarms in the database.
type AlarmRepository struct {
	db postgres.DBTX
}

// NewAlarmRepository creates a new AlarmRepository with the provided database pool.
func NewAlarmRepository(db postgres.DBTX) *AlarmRepository {
	return &AlarmRepository{db: db}
}

const alarmColumns = `id, hour, minute, days, label, is_enabled, created_at, updated_at`

// List returns all alarms ordered by time of day.
func (r *AlarmRepository) List(ctx context.Context) ([]*entities.Alarm, error) {
	query := `SELECT ` + alarmColumns + ` FROM alarms ORDER BY hour, minute, created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list alarms: %w", err)
	}
	defer rows.Close()

	var alarms []*entities.Alarm
	for rows.Next() {
		a, err := scanAlarm(rows)
		if err != nil {
			return nil, err
		}
		alarms = append(alarms, a)
	}

	return alarms, rows.Err()
}

// GetByID retrieves an alarm.
func (r *AlarmRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Alarm, error) {
	query := `SELECT ` + alarmColumns + ` FROM alarms WHERE id = $1`

	a, err := scanAlarm(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrAlarmNotFound
		}
		return nil, err
	}
	return a, nil
}

// Upsert creates or updates an alarm.
func (r *AlarmRepository) Upsert(ctx context.Context, a *entities.Alarm) error {
	query := `
		INSERT INTO alarms (id, hour, minute, days, label, is_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			hour = EXCLUDED.hour,
			minute = EXCLUDED.minute,
			days = EXCLUDED.days,
			label = EXCLUDED.label,
			is_enabled = EXCLUDED.is_enabled,
			updated_at = EXCLUDED.updated_at
	`

	days, err := a.Days.Value()
	if err != nil {
		return fmt.Errorf("encode alarm days: %w", err)
	}

	_, err = r.db.Exec(ctx, query,
		a.ID,
		a.Hour,
		a.Minute,
		days,
		a.Label,
		a.IsEnabled,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert alarm: %w", err)
	}

	return nil
}

// Delete removes an alarm.
func (r *AlarmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM alarms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete alarm: %w", err)
	}
	if result.RowsAffected() == 0 {
		return repo.ErrAlarmNotFound
	}
	return nil
}

// SetEnabled switches an alarm on or off.
func (r *AlarmRepository) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	result, err := r.db.Exec(ctx,
		`UPDATE alarms SET is_enabled = $1, updated_at = NOW() WHERE id = $2`,
		enabled, id,
	)
	if err != nil {
		return fmt.Errorf("set alarm enabled: %w", err)
	}
	if result.RowsAffected() == 0 {
		return repo.ErrAlarmNotFound
	}
	return nil
}

func scanAlarm(row pgx.Row) (*entities.Alarm, error) {
	var (
		a    entities.Alarm
		days string
	)
	err := row.Scan(&a.ID, &a.Hour, &a.Minute, &days, &a.Label, &a.IsEnabled, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan alarm: %w", err)
	}

	if err := a.Days.Scan(days); err != nil {
		return nil, fmt.Errorf("scan alarm days: %w", err)
	}
	return &a, nil
}
