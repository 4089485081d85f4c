package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/repository"
)

type DeckRepository struct {
	db *sqlx.DB
}

func NewDeckRepository(db *sqlx.DB) *DeckRepository {
	return &DeckRepository{db: db}
}

func (r *DeckRepository) List(ctx context.Context) ([]*entities.DeckWithCount, error) {
	query := `
		SELECT d.id, d.name, d.is_active, d.created_at, COUNT(w.id) AS word_count
		FROM decks d
		LEFT JOIN words w ON w.deck_id = d.id
		GROUP BY d.id
		ORDER BY d.id
	`

	var decks []*entities.DeckWithCount
	if err := r.db.SelectContext(ctx, &decks, query); err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	return decks, nil
}

func (r *DeckRepository) GetByID(ctx context.Context, id int64) (*entities.Deck, error) {
	var d entities.Deck
	err := r.db.GetContext(ctx, &d, `SELECT id, name, is_active, created_at FROM decks WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrDeckNotFound
		}
		return nil, fmt.Errorf("get deck: %w", err)
	}
	return &d, nil
}

func (r *DeckRepository) GetActive(ctx context.Context) (*entities.Deck, error) {
	var d entities.Deck
	err := r.db.GetContext(ctx, &d, `SELECT id, name, is_active, created_at FROM decks WHERE is_active = 1 LIMIT 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNoActiveDeck
		}
		return nil, fmt.Errorf("get active deck: %w", err)
	}
	return &d, nil
}

func (r *DeckRepository) Create(ctx context.Context, deck *entities.Deck) (int64, error) {
	var id int64

	err := withinTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if deck.IsActive {
			if _, err := tx.ExecContext(ctx, `UPDATE decks SET is_active = 0 WHERE is_active = 1`); err != nil {
				return fmt.Errorf("deactivate decks: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO decks (name, is_active, created_at) VALUES (?, ?, ?)`,
			deck.Name, deck.IsActive, time.Now().UTC(),
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("create deck: %w", err)
	}

	return id, nil
}

func (r *DeckRepository) Rename(ctx context.Context, id int64, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE decks SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("rename deck: %w", err)
	}
	return expectRow(res, repository.ErrDeckNotFound)
}

// Delete removes a deck; its words go with it through ON DELETE CASCADE.
func (r *DeckRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete deck: %w", err)
	}
	return expectRow(res, repository.ErrDeckNotFound)
}

func (r *DeckRepository) SetActive(ctx context.Context, id int64) error {
	return withinTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE decks SET is_active = 0 WHERE is_active = 1 AND id <> ?`, id); err != nil {
			return fmt.Errorf("deactivate decks: %w", err)
		}

		res, err := tx.ExecContext(ctx, `UPDATE decks SET is_active = 1 WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("activate deck: %w", err)
		}
		return expectRow(res, repository.ErrDeckNotFound)
	})
}

func (r *DeckRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM decks`); err != nil {
		return 0, fmt.Errorf("count decks: %w", err)
	}
	return n, nil
}

func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
