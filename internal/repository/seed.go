package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// SeedWord is an entry of the bundled starter word list.
type SeedWord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// LoadSeedWords reads a JSON array of question/answer pairs.
// Entries with an empty question or answer are dropped.
func LoadSeedWords(path string) ([]SeedWord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed words: %w", err)
	}

	var raw []SeedWord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal seed words: %w", err)
	}

	words := make([]SeedWord, 0, len(raw))
	for _, w := range raw {
		w.Question = strings.TrimSpace(w.Question)
		w.Answer = strings.TrimSpace(w.Answer)
		if w.Question == "" || w.Answer == "" {
			continue
		}
		words = append(words, w)
	}

	return words, nil
}
