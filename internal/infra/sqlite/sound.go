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

type SoundRepository struct {
	db *sqlx.DB
}

func NewSoundRepository(db *sqlx.DB) *SoundRepository {
	return &SoundRepository{db: db}
}

func (r *SoundRepository) List(ctx context.Context) ([]*entities.Sound, error) {
	var sounds []*entities.Sound
	if err := r.db.SelectContext(ctx, &sounds, `SELECT id, name, path, created_at FROM sounds ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("list sounds: %w", err)
	}
	return sounds, nil
}

func (r *SoundRepository) GetByID(ctx context.Context, id int64) (*entities.Sound, error) {
	var s entities.Sound
	err := r.db.GetContext(ctx, &s, `SELECT id, name, path, created_at FROM sounds WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrSoundNotFound
		}
		return nil, fmt.Errorf("get sound: %w", err)
	}
	return &s, nil
}

func (r *SoundRepository) Create(ctx context.Context, s *entities.Sound) (int64, error) {
	res, err := r.db.NamedExecContext(ctx,
		`INSERT INTO sounds (name, path, created_at) VALUES (:name, :path, :created_at)`, s)
	if err != nil {
		return 0, fmt.Errorf("create sound: %w", err)
	}
	return res.LastInsertId()
}

func (r *SoundRepository) Rename(ctx context.Context, id int64, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE sounds SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("rename sound: %w", err)
	}
	return expectRow(res, repository.ErrSoundNotFound)
}

func (r *SoundRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sounds WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete sound: %w", err)
	}
	return expectRow(res, repository.ErrSoundNotFound)
}
