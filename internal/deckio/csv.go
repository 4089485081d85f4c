package deckio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
)

// ReadCSV parses question,answer[,weight] lines.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may omit the weight
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		records = append(records, rec)
	}

	return collect(records), nil
}

// WriteCSV writes one question,answer,weight line per word, without a header.
func WriteCSV(w io.Writer, words []*entities.Word) error {
	writer := csv.NewWriter(w)
	for _, word := range words {
		if err := writer.Write(wordFields(word)); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
