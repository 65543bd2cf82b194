package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Parse builds a Table from raw blob bytes. The master file is normally an
// xlsx workbook, but the sheet has also circulated as exported CSV, so the
// read falls back through: xlsx → comma-separated UTF-8 → semicolon-separated
// Latin-1. Only when all three fail does Parse return an error.
func Parse(data []byte) (*Table, error) {
	t, xlsxErr := parseXLSX(data)
	if xlsxErr == nil {
		return t, nil
	}
	if t, err := parseCSV(bytes.NewReader(data), ','); err == nil {
		return t, nil
	}
	latin1 := transform.NewReader(bytes.NewReader(data), charmap.ISO8859_1.NewDecoder())
	if t, err := parseCSV(latin1, ';'); err == nil {
		return t, nil
	}
	return nil, fmt.Errorf("archivo no legible como xlsx ni csv: %w", xlsxErr)
}

func parseXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	return fromRows(rows), nil
}

func parseCSV(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) < 2 {
		// A file in the wrong delimiter collapses to one wide column;
		// treat that as a failed attempt so the next fallback runs.
		return nil, fmt.Errorf("csv sin columnas")
	}
	return fromRows(rows), nil
}

// fromRows assembles a Table from a raw cell grid: first row is the header,
// data rows are padded or clipped to the header width.
func fromRows(rows [][]string) *Table {
	if len(rows) == 0 {
		return &Table{}
	}
	t := &Table{Headers: rows[0]}
	width := len(t.Headers)
	for _, r := range rows[1:] {
		row := make([]string, width)
		copy(row, r)
		t.Rows = append(t.Rows, row)
	}
	return t
}
