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

// wordOrder maps a sort to its ORDER BY clause.
var wordOrder = map[entities.WordSort]string{
	entities.SortAlphabetical:     "LOWER(question) ASC, id ASC",
	entities.SortAlphabeticalDesc: "LOWER(question) DESC, id DESC",
	entities.SortWeight:           "weight ASC, id ASC",
	entities.SortWeightDesc:       "weight DESC, id DESC",
	entities.SortNewest:           "created_at DESC, id DESC",
	entities.SortOldest:           "created_at ASC, id ASC",
}

// WordRepository provides access to words in the database.
type WordRepository struct {
	db postgres.DBTX
	tr *postgres.Transactor
}

// NewWordRepository creates a new WordRepository with the provided database pool.
func NewWordRepository(db postgres.DBTX) *WordRepository {
	return &WordRepository{db: db, tr: postgres.NewTransactor(db)}
}

const wordColumns = `id, deck_id, question, answer, weight, created_at`

// ListByDeck returns the words of a deck in the given order.
func (r *WordRepository) ListByDeck(ctx context.Context, deckID int64, sort entities.WordSort) ([]*entities.Word, error) {
	order, ok := wordOrder[sort]
	if !ok {
		order = wordOrder[entities.SortNewest]
	}

	query := `SELECT ` + wordColumns + ` FROM words WHERE deck_id = $1 ORDER BY ` + order

	rows, err := r.db.Query(ctx, query, deckID)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	defer rows.Close()

	return scanWords(rows)
}

// GetByID retrieves a word.
func (r *WordRepository) GetByID(ctx context.Context, id int64) (*entities.Word, error) {
	query := `SELECT ` + wordColumns + ` FROM words WHERE id = $1`

	var w entities.Word
	err := r.db.QueryRow(ctx, query, id).Scan(&w.ID, &w.DeckID, &w.Question, &w.Answer, &w.Weight, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrWordNotFound
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

	query := `SELECT ` + wordColumns + ` FROM words WHERE deck_id = $1 AND question = ANY($2) ORDER BY id`

	rows, err := r.db.Query(ctx, query, deckID, questions)
	if err != nil {
		return nil, fmt.Errorf("find words by question: %w", err)
	}
	defer rows.Close()

	words, err := scanWords(rows)
	if err != nil {
		return nil, err
	}
	for _, w := range words {
		if _, ok := found[w.Question]; !ok {
			found[w.Question] = w
		}
	}

	return found, nil
}

// Create inserts a word and returns its ID.
func (r *WordRepository) Create(ctx context.Context, word *entities.Word) (int64, error) {
	return insertWord(ctx, r.db, word)
}

// CreateBatch inserts words in one transaction and sets their IDs.
func (r *WordRepository) CreateBatch(ctx context.Context, words []*entities.Word) error {
	return r.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
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

// Update replaces question, answer and weight of a word.
func (r *WordRepository) Update(ctx context.Context, word *entities.Word) error {
	return updateWord(ctx, r.db, word)
}

// UpdateWeight sets the weight of a word.
func (r *WordRepository) UpdateWeight(ctx context.Context, id int64, weight int) error {
	result, err := r.db.Exec(ctx, `UPDATE words SET weight = $1 WHERE id = $2`, entities.ClampWeight(weight), id)
	if err != nil {
		return fmt.Errorf("update weight: %w", err)
	}
	if result.RowsAffected() == 0 {
		return repo.ErrWordNotFound
	}
	return nil
}

// Delete removes words and returns how many were removed.
func (r *WordRepository) Delete(ctx context.Context, ids []int64) (int, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM words WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete words: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// ApplyImport inserts and overwrites words in one transaction.
func (r *WordRepository) ApplyImport(ctx context.Context, inserts, overwrites []*entities.Word) error {
	return r.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
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

func insertWord(ctx context.Context, db postgres.DBTX, w *entities.Word) (int64, error) {
	query := `
		INSERT INTO words (deck_id, question, answer, weight, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id
	`

	var id int64
	if err := db.QueryRow(ctx, query, w.DeckID, w.Question, w.Answer, entities.ClampWeight(w.Weight)).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert word: %w", err)
	}
	return id, nil
}

func updateWord(ctx context.Context, db postgres.DBTX, w *entities.Word) error {
	query := `
		UPDATE words
		SET question = $1, answer = $2, weight = $3
		WHERE id = $4
	`

	result, err := db.Exec(ctx, query, w.Question, w.Answer, entities.ClampWeight(w.Weight), w.ID)
	if err != nil {
		return fmt.Errorf("update word: %w", err)
	}
	if result.RowsAffected() == 0 {
		return repo.ErrWordNotFound
	}
	return nil
}

func scanWords(rows pgx.Rows) ([]*entities.Word, error) {
	words := []*entities.Word{}
	for rows.Next() {
		var w entities.Word
		if err := rows.Scan(&w.ID, &w.DeckID, &w.Question, &w.Answer, &w.Weight, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, &w)
	}
	return words, rows.Err()
}
