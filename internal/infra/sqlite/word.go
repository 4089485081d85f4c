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

var wordOrder = map[entities.WordSort]string{
	entities.SortAlphabetical:     "question COLLATE NOCASE ASC, id ASC",
	entities.SortAlphabeticalDesc: "question COLLATE NOCASE DESC, id DESC",
	entities.SortWeight:           "weight ASC, id ASC",
	entities.SortWeightDesc:       "weight DESC, id DESC",
	entities.SortNewest:           "created_at DESC, id DESC",
	entities.SortOldest:           "created_at ASC, id ASC",
}

const wordColumns = `id, deck_id, question, answer, weight, created_at`

type WordRepository struct {
	db *sqlx.DB
}

func NewWordRepository(db *sqlx.DB) *WordRepository {
	return &WordRepository{db: db}
}

func (r *WordRepository) ListByDeck(ctx context.Context, deckID int64, sort entities.WordSort) ([]*entities.Word, error) {
	order, ok := wordOrder[sort]
	if !ok {
		order = wordOrder[entities.SortNewest]
	}

	words := []*entities.Word{}
	query := `SELECT ` + wordColumns + ` FROM words WHERE deck_id = ? ORDER BY ` + order
	if err := r.db.SelectContext(ctx, &words, query, deckID); err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	return words, nil
}

func (r *WordRepository) GetByID(ctx context.Context, id int64) (*entities.Word, error) {
	var w entities.Word
	err := r.db.GetContext(ctx, &w, `SELECT `+wordColumns+` FROM words WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrWordNotFound
		}
		return nil, fmt.Errorf("get word: %w", err)
	}
	return &w, nil
}

// FindByQuestions returns the words of a deck whose question is in questions,
// keyed by question. The first stored word wins when a question repeats.
func (r *WordRepository) FindByQuestions(ctx context.Context, deckID int64, questions []string) (map[string]*entities.Word, error) {
	found := make(map[string]*entities.Word)
	if len(questions) == 0 {
		return found, nil
	}

	query, args, err := sqlx.In(
		`SELECT `+wordColumns+` FROM words WHERE deck_id = ? AND question IN (?) ORDER BY id`,
		deckID, questions,
	)
	if err != nil {
		return nil, fmt.Errorf("build question lookup: %w", err)
	}

	var words []*entities.Word
	if err := r.db.SelectContext(ctx, &words, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("find words by question: %w", err)
	}
	for _, w := range words {
		if _, ok := found[w.Question]; !ok {
			found[w.Question] = w
		}
	}
	return found, nil
}

func (r *WordRepository) Create(ctx context.Context, word *entities.Word) (int64, error) {
	return insertWord(ctx, r.db, word)
}

func (r *WordRepository) CreateBatch(ctx context.Context, words []*entities.Word) error {
	return withinTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, w := range words {
			id, err := insertWord(ctx, tx, w)
			if err != nil {
				return err
			}
			w.ID = id
		}
		return nil
	})
}

func (r *WordRepository) Update(ctx context.Context, word *entities.Word) error {
	return updateWord(ctx, r.db, word)
}

func (r *WordRepository) UpdateWeight(ctx context.Context, id int64, weight int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE words SET weight = ? WHERE id = ?`, entities.ClampWeight(weight), id)
	if err != nil {
		return fmt.Errorf("update weight: %w", err)
	}
	return expectRow(res, repository.ErrWordNotFound)
}

func (r *WordRepository) Delete(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`DELETE FROM words WHERE id IN (?)`, ids)
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("delete words: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *WordRepository) ApplyImport(ctx context.Context, inserts, overwrites []*entities.Word) error {
	return withinTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, w := range inserts {
			if _, err := insertWord(ctx, tx, w); err != nil {
				return err
			}
		}
		for _, w := range overwrites {
			if err := updateWord(ctx, tx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertWord(ctx context.Context, db sqlx.ExtContext, w *entities.Word) (int64, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO words (deck_id, question, answer, weight, created_at) VALUES (?, ?, ?, ?, ?)`,
		w.DeckID, w.Question, w.Answer, entities.ClampWeight(w.Weight), time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert word: %w", err)
	}
	return res.LastInsertId()
}

func updateWord(ctx context.Context, db sqlx.ExtContext, w *entities.Word) error {
	res, err := db.ExecContext(ctx,
		`UPDATE words SET question = ?, answer = ?, weight = ? WHERE id = ?`,
		w.Question, w.Answer, entities.ClampWeight(w.Weight), w.ID,
	)
	if err != nil {
		return fmt.Errorf("update word: %w", err)
	}
	return expectRow(res, repository.ErrWordNotFound)
}
