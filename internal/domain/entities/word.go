package entities

import (
	"strings"
	"time"
)

// Weight bounds. A higher weight makes a word come up more often.
const (
	MinWeight     = 0
	MaxWeight     = 10
	DefaultWeight = 5
)

// Word is a single flashcard: a question prompt and the expected answer.
type Word struct {
	ID        int64     `db:"id" json:"id"`
	DeckID    int64     `db:"deck_id" json:"deck_id"`
	Question  string    `db:"question" json:"question"`
	Answer    string    `db:"answer" json:"answer"`
	Weight    int       `db:"weight" json:"weight"` // recall difficulty, always within [MinWeight, MaxWeight]
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewWord creates a word for a deck with its weight clamped to the valid range.
func NewWord(deckID int64, question, answer string, weight int) *Word {
	return &Word{
		DeckID:    deckID,
		Question:  strings.TrimSpace(question),
		Answer:    strings.TrimSpace(answer),
		Weight:    ClampWeight(weight),
		CreatedAt: time.Now(),
	}
}

// ClampWeight forces w into [MinWeight, MaxWeight].
func ClampWeight(w int) int {
	return min(max(w, MinWeight), MaxWeight)
}

// Raise increases the weight by delta, capped at MaxWeight.
func (w *Word) Raise(delta int) {
	w.Weight = ClampWeight(w.Weight + delta)
}

// Lower decreases the weight by delta without going under floor.
// The floor itself is clamped to the valid weight range.
func (w *Word) Lower(delta, floor int) {
	w.Weight = ClampWeight(max(w.Weight-delta, ClampWeight(floor)))
}

// Matches reports whether the given answer is correct for the word.
// Comparison ignores surrounding whitespace and letter case.
func (w *Word) Matches(answer string) bool {
	return strings.EqualFold(
		strings.TrimSpace(answer),
		strings.TrimSpace(w.Answer),
	)
}

// WordSort names an ordering for word listings.
type WordSort string

const (
	SortAlphabetical     WordSort = "alphabetical"
	SortAlphabeticalDesc WordSort = "alphabetical_desc"
	SortWeight           WordSort = "weight"
	SortWeightDesc       WordSort = "weight_desc"
	SortNewest           WordSort = "newest"
	SortOldest           WordSort = "oldest"
)

// ParseWordSort converts user input into a WordSort, defaulting to SortNewest.
func ParseWordSort(s string) WordSort {
	switch WordSort(strings.ToLower(strings.TrimSpace(s))) {
	case SortAlphabetical:
		return SortAlphabetical
	case SortAlphabeticalDesc:
		return SortAlphabeticalDesc
	case SortWeight:
		return SortWeight
	case SortWeightDesc:
		return SortWeightDesc
	case SortOldest:
		return SortOldest
	default:
		return SortNewest
	}
}
