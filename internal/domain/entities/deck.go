package entities

import "time"

// Deck groups words. Exactly one deck is active at a time and feeds the alarm quiz.
type Deck struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DeckWithCount is a deck together with the number of words it holds.
type DeckWithCount struct {
	Deck
	WordCount int `db:"word_count" json:"word_count"`
}

// DuplicateAction tells the importer what to do with a word whose question already exists.
type DuplicateAction string

const (
	DuplicateSkip      DuplicateAction = "skip"
	DuplicateOverwrite DuplicateAction = "overwrite"
	DuplicateKeepBoth  DuplicateAction = "keep_both"
)

// ParseDuplicateAction converts user input into a DuplicateAction.
// Unknown values fall back to DuplicateSkip.
func ParseDuplicateAction(s string) DuplicateAction {
	switch DuplicateAction(s) {
	case DuplicateOverwrite:
		return DuplicateOverwrite
	case DuplicateKeepBoth:
		return DuplicateKeepBoth
	default:
		return DuplicateSkip
	}
}

// DuplicateWord pairs an imported word with the existing word it collides with.
type DuplicateWord struct {
	New      *Word
	Existing *Word
	Action   DuplicateAction
}

// ImportPreview is the result of parsing an import file before anything is written.
type ImportPreview struct {
	DeckID     int64
	NewWords   []*Word
	Duplicates []*DuplicateWord
}

// ResolveAll applies the same action to every duplicate.
func (p *ImportPreview) ResolveAll(action DuplicateAction) {
	for _, d := range p.Duplicates {
		d.Action = action
	}
}

// ImportResult summarizes a finalized import.
type ImportResult struct {
	Inserted    int
	Overwritten int
	Skipped     int
}
