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

// SoundRepository provides access to custom alarm sounds in the database.
type SoundRepository struct {
	db postgres.DBTX
}

// NewSoundRepository creates a new SoundRepository with the provided database pool.
func NewSoundRepository(db postgres.DBTX) *SoundRepository {
	return &SoundRepository{db: db}
}

// List returns all sounds by name.
func (r *SoundRepository) List(ctx context.Context) ([]*entities.Sound, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, path, created_at FROM sounds ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list sounds: %w", err)
	}
	defer rows.Close()

	var sounds []*entities.Sound
	for rows.Next() {
		var s entities.Sound
		if err := rows.Scan(&s.ID, &s.Name, &s.Path, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sound: %w", err)
		}
		sounds = append(sounds, &s)
	}

	return sounds, rows.Err()
}

// GetByID retrieves a sound.
func (r *SoundRepository) GetByID(ctx context.Context, id int64) (*entities.Sound, error) {
	var s entities.Sound
	err := r.db.QueryRow(ctx, `SELECT id, name, path, created_at FROM sounds WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Path, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrSoundNotFound
		}
		return nil, fmt.Errorf("get sound: %w", err)
	}
	return &s, nil
}

// Create inserts a sound and returns its ID.
func (r *SoundRepository) Create(ctx context.Context, s *entities.Sound) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO sounds (name, path, created_at) VALUES ($1, $2, $3) RETURNING id`,
		s.Name, s.Path, s.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create sound: %w", err)
	}
	return id, nil
}

// Rename changes the display name of a sound.
func (r *SoundRepository) Rename(ctx context.Context, id int64, name string) error {
	result, err := r.db.Exec(ctx, `UPDATE sounds SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("rename sound: %w", err)
	}
	if result.RowsAffected() == 0 {
		return repo.ErrSoundNotFound
	}
	return nil
}

// Delete removes a sound.
func (r *SoundRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM sounds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sound: %w", err)
	}
	if result.RowsAffected() == 0 {
		return repo.ErrSoundNotFound
	}
	return nil
}
