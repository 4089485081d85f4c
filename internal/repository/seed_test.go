package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeedWords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "words.json")
	data := `[
		{"question": "der Hund", "answer": "dog"},
		{"question": "  ", "answer": "blank"},
		{"question": "die Katze", "answer": " cat "}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	words, err := LoadSeedWords(path)
	require.NoError(t, err)
	assert.Equal(t, []SeedWord{
		{Question: "der Hund", Answer: "dog"},
		{Question: "die Katze", Answer: "cat"},
	}, words)
}

func TestLoadSeedWordsErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := LoadSeedWords(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	_, err = LoadSeedWords(bad)
	assert.Error(t, err)
}
