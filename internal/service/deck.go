package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/deckio"
	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/repository"
)

// DefaultDeckName is the name of the deck seeded on first use.
const DefaultDeckName = "Default Deck"

type DeckInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

type WordInput struct {
	Question string `json:"question" validate:"required,max=500"`
	Answer   string `json:"answer" validate:"required,max=500"`
	Weight   *int   `json:"weight,omitempty"`
}

// DeckService manages decks, their words, and deck import/export.
type DeckService struct {
	decks    DeckRepository
	words    WordRepository
	seedPath string
	logger   *zap.Logger
}

func NewDeckService(decks DeckRepository, words WordRepository, seedPath string, logger *zap.Logger) *DeckService {
	return &DeckService{
		decks:    decks,
		words:    words,
		seedPath: seedPath,
		logger:   logger,
	}
}

func (s *DeckService) ListDecks(ctx context.Context) ([]*entities.DeckWithCount, error) {
	decks, err := s.decks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	return decks, nil
}

func (s *DeckService) GetDeck(ctx context.Context, id int64) (*entities.Deck, error) {
	return s.decks.GetByID(ctx, id)
}

// CreateDeck adds a deck. The first deck ever created becomes active.
func (s *DeckService) CreateDeck(ctx context.Context, name string) (*entities.Deck, error) {
	in := DeckInput{Name: strings.TrimSpace(name)}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	count, err := s.decks.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count decks: %w", err)
	}

	deck := &entities.Deck{Name: in.Name, IsActive: count == 0}
	id, err := s.decks.Create(ctx, deck)
	if err != nil {
		return nil, fmt.Errorf("create deck: %w", err)
	}
	deck.ID = id

	s.logger.Info("deck created", zap.Int64("deck_id", id), zap.String("name", deck.Name))
	return deck, nil
}

func (s *DeckService) RenameDeck(ctx context.Context, id int64, name string) error {
	in := DeckInput{Name: strings.TrimSpace(name)}
	if err := validateStruct(in); err != nil {
		return err
	}
	return s.decks.Rename(ctx, id, in.Name)
}

// DeleteDeck removes a deck and its words.
func (s *DeckService) DeleteDeck(ctx context.Context, id int64) error {
	if err := s.decks.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deck deleted", zap.Int64("deck_id", id))
	return nil
}

// SetActiveDeck makes id the only active deck.
func (s *DeckService) SetActiveDeck(ctx context.Context, id int64) error {
	if err := s.decks.SetActive(ctx, id); err != nil {
		return err
	}
	s.logger.Info("active deck changed", zap.Int64("deck_id", id))
	return nil
}

func (s *DeckService) ActiveDeck(ctx context.Context) (*entities.Deck, error) {
	return s.decks.GetActive(ctx)
}

// ListWords returns the words of a deck in the requested order.
func (s *DeckService) ListWords(ctx context.Context, deckID int64, sort entities.WordSort) ([]*entities.Word, error) {
	if _, err := s.decks.GetByID(ctx, deckID); err != nil {
		return nil, err
	}

	words, err := s.words.ListByDeck(ctx, deckID, sort)
	if err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}
	return words, nil
}

// AddWord adds a word to a deck. A missing weight defaults to DefaultWeight;
// any weight is clamped.
func (s *DeckService) AddWord(ctx context.Context, deckID int64, in WordInput) (*entities.Word, error) {
	in = trimWordInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if _, err := s.decks.GetByID(ctx, deckID); err != nil {
		return nil, err
	}

	weight := entities.DefaultWeight
	if in.Weight != nil {
		weight = *in.Weight
	}

	word := entities.NewWord(deckID, in.Question, in.Answer, weight)
	id, err := s.words.Create(ctx, word)
	if err != nil {
		return nil, fmt.Errorf("create word: %w", err)
	}
	word.ID = id

	return word, nil
}

// UpdateWord replaces the question and answer of a word and, when given, its weight.
func (s *DeckService) UpdateWord(ctx context.Context, id int64, in WordInput) (*entities.Word, error) {
	in = trimWordInput(in)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	word, err := s.words.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	word.Question = in.Question
	word.Answer = in.Answer
	if in.Weight != nil {
		word.Weight = *in.Weight
	}
	word.Weight = entities.ClampWeight(word.Weight)

	if err := s.words.Update(ctx, word); err != nil {
		return nil, fmt.Errorf("update word: %w", err)
	}
	return word, nil
}

// DeleteWords removes the given words and returns how many were deleted.
func (s *DeckService) DeleteWords(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := s.words.Delete(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("delete words: %w", err)
	}
	return n, nil
}

// ActiveWords returns a fresh snapshot of the active deck.
// Without an active deck a default deck is seeded from the bundled word list;
// a missing or malformed list yields no words.
func (s *DeckService) ActiveWords(ctx context.Context) ([]*entities.Word, error) {
	deck, err := s.decks.GetActive(ctx)
	if errors.Is(err, repository.ErrNoActiveDeck) {
		return s.seedDefaultDeck(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("get active deck: %w", err)
	}

	words, err := s.words.ListByDeck(ctx, deck.ID, entities.SortNewest)
	if err != nil {
		return nil, fmt.Errorf("list active words: %w", err)
	}
	return words, nil
}

func (s *DeckService) seedDefaultDeck(ctx context.Context) ([]*entities.Word, error) {
	seed, err := repository.LoadSeedWords(s.seedPath)
	if err != nil {
		s.logger.Warn("seed words unavailable", zap.String("path", s.seedPath), zap.Error(err))
		return []*entities.Word{}, nil
	}

	deck := &entities.Deck{Name: DefaultDeckName, IsActive: true}
	deckID, err := s.decks.Create(ctx, deck)
	if err != nil {
		return nil, fmt.Errorf("create default deck: %w", err)
	}
	if err := s.decks.SetActive(ctx, deckID); err != nil {
		return nil, fmt.Errorf("activate default deck: %w", err)
	}

	words := make([]*entities.Word, 0, len(seed))
	for _, w := range seed {
		words = append(words, entities.NewWord(deckID, w.Question, w.Answer, entities.DefaultWeight))
	}
	if err := s.words.CreateBatch(ctx, words); err != nil {
		return nil, fmt.Errorf("insert seed words: %w", err)
	}

	s.logger.Info("default deck seeded", zap.Int64("deck_id", deckID), zap.Int("words", len(words)))

	return s.words.ListByDeck(ctx, deckID, entities.SortNewest)
}

// PreviewImport parses r and splits its rows into new words and duplicates
// of questions already in the deck. Nothing is written.
func (s *DeckService) PreviewImport(ctx context.Context, deckID int64, r io.Reader, format deckio.Format) (*entities.ImportPreview, error) {
	if _, err := s.decks.GetByID(ctx, deckID); err != nil {
		return nil, err
	}

	rows, err := deckio.Read(r, format)
	if err != nil {
		return nil, err
	}

	questions := make([]string, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, row.Question)
	}

	existing, err := s.words.FindByQuestions(ctx, deckID, questions)
	if err != nil {
		return nil, fmt.Errorf("find existing words: %w", err)
	}

	preview := &entities.ImportPreview{DeckID: deckID}
	for _, row := range rows {
		word := entities.NewWord(deckID, row.Question, row.Answer, row.Weight)
		if old, ok := existing[row.Question]; ok {
			preview.Duplicates = append(preview.Duplicates, &entities.DuplicateWord{
				New:      word,
				Existing: old,
				Action:   entities.DuplicateSkip,
			})
			continue
		}
		preview.NewWords = append(preview.NewWords, word)
	}

	return preview, nil
}

// FinalizeImport writes a preview according to the action of every duplicate.
func (s *DeckService) FinalizeImport(ctx context.Context, preview *entities.ImportPreview) (*entities.ImportResult, error) {
	inserts := make([]*entities.Word, 0, len(preview.NewWords))
	inserts = append(inserts, preview.NewWords...)

	var overwrites []*entities.Word
	result := &entities.ImportResult{}

	for _, d := range preview.Duplicates {
		switch d.Action {
		case entities.DuplicateOverwrite:
			updated := *d.Existing
			updated.Answer = d.New.Answer
			updated.Weight = entities.ClampWeight(d.New.Weight)
			overwrites = append(overwrites, &updated)
		case entities.DuplicateKeepBoth:
			inserts = append(inserts, d.New)
		default:
			result.Skipped++
		}
	}

	if err := s.words.ApplyImport(ctx, inserts, overwrites); err != nil {
		return nil, fmt.Errorf("apply import: %w", err)
	}

	result.Inserted = len(inserts)
	result.Overwritten = len(overwrites)

	s.logger.Info("import finalized",
		zap.Int64("deck_id", preview.DeckID),
		zap.Int("inserted", result.Inserted),
		zap.Int("overwritten", result.Overwritten),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}

// Export writes every word of the deck to w and returns the number written.
func (s *DeckService) Export(ctx context.Context, deckID int64, w io.Writer, format deckio.Format) (int, error) {
	words, err := s.ListWords(ctx, deckID, entities.SortOldest)
	if err != nil {
		return 0, err
	}
	if err := deckio.Write(w, format, words); err != nil {
		return 0, fmt.Errorf("export deck: %w", err)
	}
	return len(words), nil
}

func trimWordInput(in WordInput) WordInput {
	in.Question = strings.TrimSpace(in.Question)
	in.Answer = strings.TrimSpace(in.Answer)
	return in
}
