package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/aliskhannn/langalarm/internal/deckio"
	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/repository"
)

type deckFixture struct {
	svc   *DeckService
	decks *fakeDeckRepo
	words *fakeWordRepo
}

func newDeckFixture(t *testing.T, seedPath string) *deckFixture {
	t.Helper()

	words := newFakeWordRepo()
	decks := newFakeDeckRepo(words)
	return &deckFixture{
		svc:   NewDeckService(decks, words, seedPath, zaptest.NewLogger(t)),
		decks: decks,
		words: words,
	}
}

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDeckServiceFirstDeckBecomesActive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newDeckFixture(t, "")

	first, err := f.svc.CreateDeck(ctx, " German ")
	require.NoError(t, err)
	assert.True(t, first.IsActive)
	assert.Equal(t, "German", first.Name)

	second, err := f.svc.CreateDeck(ctx, "Spanish")
	require.NoError(t, err)
	assert.False(t, second.IsActive)

	require.NoError(t, f.svc.SetActiveDeck(ctx, second.ID))
	active, err := f.svc.ActiveDeck(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	decks, err := f.svc.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.False(t, decks[0].IsActive, "only one deck is active")

	_, err = f.svc.CreateDeck(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeckServiceWords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newDeckFixture(t, "")

	deck, err := f.svc.CreateDeck(ctx, "German")
	require.NoError(t, err)

	dog, err := f.svc.AddWord(ctx, deck.ID, WordInput{Question: "der Hund", Answer: "dog"})
	require.NoError(t, err)
	assert.Equal(t, entities.DefaultWeight, dog.Weight)

	heavy := 25
	cat, err := f.svc.AddWord(ctx, deck.ID, WordInput{Question: "die Katze", Answer: "cat", Weight: &heavy})
	require.NoError(t, err)
	assert.Equal(t, entities.MaxWeight, cat.Weight)

	_, err = f.svc.AddWord(ctx, deck.ID, WordInput{Question: "", Answer: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.AddWord(ctx, 999, WordInput{Question: "q", Answer: "a"})
	assert.ErrorIs(t, err, repository.ErrDeckNotFound)

	negative := -4
	updated, err := f.svc.UpdateWord(ctx, dog.ID, WordInput{Question: "der Hund", Answer: "the dog", Weight: &negative})
	require.NoError(t, err)
	assert.Equal(t, entities.MinWeight, updated.Weight)
	assert.Equal(t, "the dog", updated.Answer)

	byWeight, err := f.svc.ListWords(ctx, deck.ID, entities.SortWeightDesc)
	require.NoError(t, err)
	require.Len(t, byWeight, 2)
	assert.Equal(t, "die Katze", byWeight[0].Question)

	n, err := f.svc.DeleteWords(ctx, []int64{dog.ID, cat.ID, 12345})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDeckServiceActiveWordsSeedsDefaultDeck(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	seed := writeSeed(t, `[{"question":"der Hund","answer":"dog"},{"question":"die Katze","answer":"cat"}]`)
	f := newDeckFixture(t, seed)

	words, err := f.svc.ActiveWords(ctx)
	require.NoError(t, err)
	require.Len(t, words, 2)
	for _, w := range words {
		assert.Equal(t, entities.DefaultWeight, w.Weight)
		assert.NotZero(t, w.ID)
	}

	deck, err := f.svc.ActiveDeck(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultDeckName, deck.Name)

	again, err := f.svc.ActiveWords(ctx)
	require.NoError(t, err)
	assert.Len(t, again, 2, "seeding happens once")

	count, err := f.decks.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeckServiceActiveWordsMissingSeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	for name, path := range map[string]string{
		"missing":   filepath.Join(t.TempDir(), "nope.json"),
		"malformed": writeSeed(t, "{oops"),
	} {
		t.Run(name, func(t *testing.T) {
			f := newDeckFixture(t, path)

			words, err := f.svc.ActiveWords(ctx)
			require.NoError(t, err)
			assert.Empty(t, words)

			count, err := f.decks.Count(ctx)
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	}
}

func TestDeckServiceEmptyActiveDeckIsNotSeeded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	seed := writeSeed(t, `[{"question":"der Hund","answer":"dog"}]`)
	f := newDeckFixture(t, seed)

	deck, err := f.svc.CreateDeck(ctx, "Spanish")
	require.NoError(t, err)
	require.True(t, deck.IsActive)

	words, err := f.svc.ActiveWords(ctx)
	require.NoError(t, err)
	assert.Empty(t, words, "an empty active deck stays empty")

	active, err := f.svc.ActiveDeck(ctx)
	require.NoError(t, err)
	assert.Equal(t, deck.ID, active.ID)

	count, err := f.decks.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeckServiceImport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newDeckFixture(t, "")

	deck, err := f.svc.CreateDeck(ctx, "German")
	require.NoError(t, err)
	_, err = f.svc.AddWord(ctx, deck.ID, WordInput{Question: "der Hund", Answer: "dog"})
	require.NoError(t, err)
	_, err = f.svc.AddWord(ctx, deck.ID, WordInput{Question: "die Katze", Answer: "cat"})
	require.NoError(t, err)
	_, err = f.svc.AddWord(ctx, deck.ID, WordInput{Question: "das Haus", Answer: "house"})
	require.NoError(t, err)

	csv := strings.Join([]string{
		"der Hund,the dog,9",
		"die Katze,the cat,1",
		"das Haus,the house",
		"der Baum,tree,2",
		"broken",
	}, "\n")

	preview, err := f.svc.PreviewImport(ctx, deck.ID, strings.NewReader(csv), deckio.FormatCSV)
	require.NoError(t, err)
	require.Len(t, preview.NewWords, 1)
	require.Len(t, preview.Duplicates, 3)
	assert.Equal(t, "der Baum", preview.NewWords[0].Question)

	for _, d := range preview.Duplicates {
		switch d.New.Question {
		case "der Hund":
			d.Action = entities.DuplicateOverwrite
		case "die Katze":
			d.Action = entities.DuplicateKeepBoth
		}
	}

	result, err := f.svc.FinalizeImport(ctx, preview)
	require.NoError(t, err)
	assert.Equal(t, &entities.ImportResult{Inserted: 2, Overwritten: 1, Skipped: 1}, result)

	words, err := f.svc.ListWords(ctx, deck.ID, entities.SortAlphabetical)
	require.NoError(t, err)
	require.Len(t, words, 5)

	answers := map[string][]string{}
	for _, w := range words {
		answers[w.Question] = append(answers[w.Question], w.Answer)
	}
	assert.Equal(t, []string{"the dog"}, answers["der Hund"])
	assert.ElementsMatch(t, []string{"cat", "the cat"}, answers["die Katze"])
	assert.Equal(t, []string{"house"}, answers["das Haus"])
	assert.Equal(t, []string{"tree"}, answers["der Baum"])
}

func TestDeckServiceExport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newDeckFixture(t, "")

	deck, err := f.svc.CreateDeck(ctx, "German")
	require.NoError(t, err)
	w := 3
	_, err = f.svc.AddWord(ctx, deck.ID, WordInput{Question: "der Hund", Answer: "dog", Weight: &w})
	require.NoError(t, err)
	_, err = f.svc.AddWord(ctx, deck.ID, WordInput{Question: "die Katze", Answer: "cat"})
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := f.svc.Export(ctx, deck.ID, &buf, deckio.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "der Hund,dog,3\ndie Katze,cat,5\n", buf.String())

	_, err = f.svc.Export(ctx, 42, &buf, deckio.FormatCSV)
	assert.ErrorIs(t, err, repository.ErrDeckNotFound)
}

func TestDeckServiceDeleteDeckCascades(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newDeckFixture(t, "")

	deck, err := f.svc.CreateDeck(ctx, "German")
	require.NoError(t, err)
	_, err = f.svc.AddWord(ctx, deck.ID, WordInput{Question: "q", Answer: "a"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteDeck(ctx, deck.ID))
	assert.Zero(t, f.words.countByDeck(deck.ID))

	assert.ErrorIs(t, f.svc.RenameDeck(ctx, deck.ID, "x"), repository.ErrDeckNotFound)
}
