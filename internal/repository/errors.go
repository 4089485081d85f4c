// Package repository holds the storage contracts shared by every backend:
// sentinel errors and the seed word loader.
package repository

import "errors"

var (
	ErrDeckNotFound     = errors.New("deck not found")
	ErrNoActiveDeck     = errors.New("no active deck")
	ErrWordNotFound     = errors.New("word not found")
	ErrAlarmNotFound    = errors.New("alarm not found")
	ErrSettingsNotFound = errors.New("settings not found")
	ErrSoundNotFound    = errors.New("sound not found")
)
