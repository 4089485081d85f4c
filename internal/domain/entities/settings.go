package entities

import "time"

// DefaultSound identifies the bundled alarm sound.
const DefaultSound = "default"

// Settings holds the alarm quiz preferences of the owner.
type Settings struct {
	RequiredCorrect int       `db:"required_correct" json:"required_correct"` // correct answers needed to dismiss an alarm
	BufferSize      int       `db:"buffer_size" json:"buffer_size"`           // distinct words shown before one may repeat
	MaxTrials       int       `db:"max_trials" json:"max_trials"`             // wrong attempts before a word is skipped
	ActiveSound     string    `db:"active_sound" json:"active_sound"`         // DefaultSound or the path of a custom sound
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

const (
	minRequiredCorrect = 1
	minBufferSize      = 3
	minMaxTrials       = 1
)

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		RequiredCorrect: 3,
		BufferSize:      3,
		MaxTrials:       2,
		ActiveSound:     DefaultSound,
		UpdatedAt:       time.Now(),
	}
}

// Normalize raises every value below its minimum to that minimum.
func (s *Settings) Normalize() {
	s.RequiredCorrect = max(s.RequiredCorrect, minRequiredCorrect)
	s.BufferSize = max(s.BufferSize, minBufferSize)
	s.MaxTrials = max(s.MaxTrials, minMaxTrials)
	if s.ActiveSound == "" {
		s.ActiveSound = DefaultSound
	}
}
