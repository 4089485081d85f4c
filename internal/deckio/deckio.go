// Package deckio reads and writes word lists as CSV or XLSX.
//
// Both formats use the same columns: question, answer and an optional
// weight. Rows with fewer than two fields or an empty question or answer
// are skipped; a missing or invalid weight becomes the default weight and
// every weight is clamped to the valid range.
package deckio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format is a supported file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat converts a format name such as "csv" or ".xlsx".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv", "txt":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnsupportedFormat)
	}
}

// DetectFormat picks the format from a file name extension.
func DetectFormat(filename string) (Format, error) {
	return ParseFormat(filepath.Ext(filename))
}

// Row is one imported word before it is bound to a deck.
type Row struct {
	Question string
	Answer   string
	Weight   int
}

// Read parses all rows of r in the given format.
func Read(r io.Reader, f Format) ([]Row, error) {
	switch f {
	case FormatCSV:
		return ReadCSV(r)
	case FormatXLSX:
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("%q: %w", f, ErrUnsupportedFormat)
	}
}

// Write writes words to w in the given format.
func Write(w io.Writer, f Format, words []*entities.Word) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, words)
	case FormatXLSX:
		return WriteXLSX(w, words)
	default:
		return fmt.Errorf("%q: %w", f, ErrUnsupportedFormat)
	}
}

// parseRow converts raw fields into a Row. ok is false for rows to skip.
func parseRow(fields []string) (row Row, ok bool) {
	if len(fields) < 2 {
		return Row{}, false
	}

	row = Row{
		Question: strings.TrimSpace(fields[0]),
		Answer:   strings.TrimSpace(fields[1]),
		Weight:   entities.DefaultWeight,
	}
	if row.Question == "" || row.Answer == "" {
		return Row{}, false
	}

	if len(fields) >= 3 {
		if w, err := strconv.Atoi(strings.TrimSpace(fields[2])); err == nil {
			row.Weight = w
		}
	}
	row.Weight = entities.ClampWeight(row.Weight)

	return row, true
}

// isHeader reports whether fields look like a column header line.
func isHeader(fields []string) bool {
	return len(fields) >= 2 &&
		strings.EqualFold(strings.TrimSpace(fields[0]), "question") &&
		strings.EqualFold(strings.TrimSpace(fields[1]), "answer")
}

func collect(records [][]string) []Row {
	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		if i == 0 && isHeader(rec) {
			continue
		}
		if row, ok := parseRow(rec); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func wordFields(w *entities.Word) []string {
	return []string{w.Question, w.Answer, strconv.Itoa(entities.ClampWeight(w.Weight))}
}
