package service

import (
	"errors"
	"math/rand"
	"slices"
	"time"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
)

var ErrNoWordsAvailable = errors.New("no words available")

// Selector picks quiz words with probability proportional to weight + 1,
// avoiding words that were shown recently.
type Selector struct {
	rng *rand.Rand
}

// NewSelector creates a Selector. A nil source seeds from the current time.
func NewSelector(src rand.Source) *Selector {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Selector{rng: rand.New(src)}
}

// Pick returns the next word to ask.
//
// Words present in recent are excluded. If that leaves nothing, the pick is
// uniform over all words. Otherwise a roulette draw over the masses
// (weight + 1) decides, so a word of weight 0 can still come up.
func (s *Selector) Pick(words, recent []*entities.Word) (*entities.Word, error) {
	if len(words) == 0 {
		return nil, ErrNoWordsAvailable
	}

	candidates := make([]*entities.Word, 0, len(words))
	for _, w := range words {
		if !slices.Contains(recent, w) {
			candidates = append(candidates, w)
		}
	}

	if len(candidates) == 0 {
		return words[s.rng.Intn(len(words))], nil
	}

	total := 0
	for _, w := range candidates {
		total += mass(w)
	}

	r := s.rng.Intn(total) + 1 // uniform in [1, total]
	for _, w := range candidates {
		r -= mass(w)
		if r <= 0 {
			return w, nil
		}
	}

	return candidates[len(candidates)-1], nil
}

// mass is the selection mass of a word. Weights are clamped so that corrupt
// values cannot produce a zero or negative mass.
func mass(w *entities.Word) int {
	return entities.ClampWeight(w.Weight) + 1
}
