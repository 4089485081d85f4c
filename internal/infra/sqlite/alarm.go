package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/repository"
)

const alarmColumns = `id, hour, minute, days, label, is_enabled, created_at, updated_at`

type AlarmRepository struct {
	db *sqlx.DB
}

func NewAlarmRepository(db *sqlx.DB) *AlarmRepository {
	return &AlarmRepository{db: db}
}

func (r *AlarmRepository) List(ctx context.Context) ([]*entities.Alarm, error) {
	var alarms []*entities.Alarm
	query := `SELECT ` + alarmColumns + ` FROM alarms ORDER BY hour, minute, created_at`
	if err := r.db.SelectContext(ctx, &alarms, query); err != nil {
		return nil, fmt.Errorf("list alarms: %w", err)
	}
	return alarms, nil
}

func (r *AlarmRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Alarm, error) {
	var a entities.Alarm
	err := r.db.GetContext(ctx, &a, `SELECT `+alarmColumns+` FROM alarms WHERE id = ?`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrAlarmNotFound
		}
		return nil, fmt.Errorf("get alarm: %w", err)
	}
	return &a, nil
}

// Upsert creates or updates an alarm using named parameters bound from its db tags.
func (r *AlarmRepository) Upsert(ctx context.Context, a *entities.Alarm) error {
	query := `
		INSERT INTO alarms (id, hour, minute, days, label, is_enabled, created_at, updated_at)
		VALUES (:id, :hour, :minute, :days, :label, :is_enabled, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			hour = excluded.hour,
			minute = excluded.minute,
			days = excluded.days,
			label = excluded.label,
			is_enabled = excluded.is_enabled,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("upsert alarm: %w", err)
	}
	return nil
}

func (r *AlarmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM alarms WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete alarm: %w", err)
	}
	return expectRow(res, repository.ErrAlarmNotFound)
}

func (r *AlarmRepository) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE alarms SET is_enabled = ?, updated_at = ? WHERE id = ?`,
		enabled, time.Now().UTC(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("set alarm enabled: %w", err)
	}
	return expectRow(res, repository.ErrAlarmNotFound)
}
