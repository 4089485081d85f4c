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

// DeckRepository provides access to decks in the database.
type DeckRepository struct {
	db postgres.DBTX
	tr *postgres.Transactor
}

// NewDeckRepository creates a new DeckRepository with the provided database pool.
func NewDeckRepository(db postgres.DBTX) *DeckRepository {
	return &DeckRepository{db: db, tr: postgres.NewTransactor(db)}
}

// List returns all decks with the number of words in each.
func (r *DeckRepository) List(ctx context.Context) ([]*entities.DeckWithCount, error) {
	query := `
		SELECT d.id, d.name, d.is_active, d.created_at, COUNT(w.id)
		FROM decks d
		LEFT JOIN words w ON w.deck_id = d.id
		GROUP BY d.id
		ORDER BY d.id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	var decks []*entities.DeckWithCount
	for rows.Next() {
		var d entities.DeckWithCount
		if err := rows.Scan(&d.ID, &d.Name, &d.IsActive, &d.CreatedAt, &d.WordCount); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		decks = append(decks, &d)
	}

	return decks, rows.Err()
}

// GetByID retrieves a deck.
func (r *DeckRepository) GetByID(ctx context.Context, id int64) (*entities.Deck, error) {
	query := `SELECT id, name, is_active, created_at FROM decks WHERE id = $1`
	return r.getOne(ctx, repo.ErrDeckNotFound, query, id)
}

// GetActive retrieves the active deck.
func (r *DeckRepository) GetActive(ctx context.Context) (*entities.Deck, error) {
	query := `SELECT id, name, is_active, created_at FROM decks WHERE is_active LIMIT 1`
	return r.getOne(ctx, repo.ErrNoActiveDeck, query)
}

func (r *DeckRepository) getOne(ctx context.Context, notFound error, query string, args ...any) (*entities.Deck, error) {
	var d entities.Deck
	err := r.db.QueryRow(ctx, query, args...).Scan(&d.ID, &d.Name, &d.IsActive, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound
		}
		return nil, fmt.Errorf("get deck: %w", err)
	}
	return &d, nil
}

// Create inserts a deck. An active deck deactivates every other deck.
func (r *DeckRepository) Create(ctx context.Context, deck *entities.Deck) (int64, error) {
	var id int64

	err := r.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if deck.IsActive {
			if _, err := tx.Exec(ctx, `UPDATE decks SET is_active = FALSE WHERE is_active`); err != nil {
				return fmt.Errorf("deactivate decks: %w", err)
			}
		}

		query := `
			INSERT INTO decks (name, is_active, created_at)
			VALUES ($1, $2, NOW())
			RETURNING id
		`
		return tx.QueryRow(ctx, query, deck.Name, deck.IsActive).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("create deck: %w", err)
	}

	return id, nil
}

// Rename changes the name of a deck.
func (r *DeckRepository) Rename(ctx context.Context, id int64, name string) error {
	result, err := r.db.Exec(ctx, `UPDATE decks SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("rename deck: %w", err)
	}
	if result.RowsAffected() == 0 {
		return repo.ErrDeckNotFound
	}
	return nil
}

// Delete removes a deck; its words are removed by the foreign key cascade.
func (r *DeckRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete deck: %w", err)
	}
	if result.RowsAffected() == 0 {
		return repo.ErrDeckNotFound
	}
	return nil
}

// SetActive makes id the only active deck.
func (r *DeckRepository) SetActive(ctx context.Context, id int64) error {
	return r.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE decks SET is_active = FALSE WHERE is_active AND id <> $1`, id); err != nil {
			return fmt.Errorf("deactivate decks: %w", err)
		}

		result, err := tx.Exec(ctx, `UPDATE decks SET is_active = TRUE WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("activate deck: %w", err)
		}
		if result.RowsAffected() == 0 {
			return repo.ErrDeckNotFound
		}
		return nil
	})
}

// Count returns the number of decks.
func (r *DeckRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM decks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count decks: %w", err)
	}
	return n, nil
}
