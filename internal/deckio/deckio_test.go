package deckio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
)

func TestReadCSV(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"question,answer,weight",
		"der Hund,the dog,7",
		"die Katze, the cat ",
		"das Haus,the house,abc",
		"der Baum,the tree,42",
		"lonely",
		",no question",
		"no answer,",
		`"eins, zwei",one two,-3`,
	}, "\n")

	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []Row{
		{Question: "der Hund", Answer: "the dog", Weight: 7},
		{Question: "die Katze", Answer: "the cat", Weight: entities.DefaultWeight},
		{Question: "das Haus", Answer: "the house", Weight: entities.DefaultWeight},
		{Question: "der Baum", Answer: "the tree", Weight: entities.MaxWeight},
		{Question: "eins, zwei", Answer: "one two", Weight: entities.MinWeight},
	}, rows)
}

func TestCSVRoundTrip(t *testing.T) {
	t.Parallel()

	words := []*entities.Word{
		{Question: "der Hund", Answer: "the dog", Weight: 3},
		{Question: "a, b", Answer: `say "hi"`, Weight: 10},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, words))
	assert.True(t, strings.HasPrefix(buf.String(), "der Hund,the dog,3\n"))

	rows, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{Question: "a, b", Answer: `say "hi"`, Weight: 10}, rows[1])
}

func TestXLSXRoundTrip(t *testing.T) {
	t.Parallel()

	words := []*entities.Word{
		{Question: "der Hund", Answer: "the dog", Weight: 3},
		{Question: "die Katze", Answer: "the cat", Weight: 9},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, words))

	rows, err := ReadXLSX(&buf)
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{Question: "der Hund", Answer: "the dog", Weight: 3},
		{Question: "die Katze", Answer: "the cat", Weight: 9},
	}, rows)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{".CSV", FormatCSV, false},
		{"txt", FormatCSV, false},
		{"xlsx", FormatXLSX, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	f, err := DetectFormat("/tmp/deck.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
}
