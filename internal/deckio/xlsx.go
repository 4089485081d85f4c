package deckio

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
)

// exportSheet is the default sheet of a new workbook.
const exportSheet = "Sheet1"

// ReadXLSX parses the first sheet of a workbook.
func ReadXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows: %w", err)
	}

	return collect(records), nil
}

// WriteXLSX writes a workbook with a header row and one row per word.
func WriteXLSX(w io.Writer, words []*entities.Word) error {
	f := excelize.NewFile()
	defer f.Close()

	header := []any{"question", "answer", "weight"}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, word := range words {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{word.Question, word.Answer, entities.ClampWeight(word.Weight)}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
