package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Serialize writes the table back to xlsx bytes. The ten canonical columns
// come first in their fixed order, any extra columns follow in the order the
// input carried them, and row order is untouched, so a normalized table
// round-trips through Parse+Normalize without losing canonical data.
func Serialize(t *Table) ([]byte, error) {
	order := append(append([]string{}, canonicalColumns...), t.extraColumns()...)

	// Keep only columns the table actually has, dedup by first occurrence.
	seen := make(map[string]bool, len(order))
	cols := make([]string, 0, len(order))
	for _, name := range order {
		if seen[name] || t.colIdx(name) < 0 {
			continue
		}
		seen[name] = true
		cols = append(cols, name)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheetName := f.GetSheetName(0)

	header := append([]string{}, cols...)
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("escribiendo encabezado: %w", err)
	}
	for i := range t.Rows {
		row := make([]string, len(cols))
		for j, name := range cols {
			row[j] = t.Cell(i, name)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("escribiendo fila %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("generando xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
