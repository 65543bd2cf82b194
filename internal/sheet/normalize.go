package sheet

import "strings"

// deliveredValues are the raw indicators that count as a completed delivery.
// Anything else in the status column normalizes to StatusPendiente, which
// keeps the column on exactly two values no matter what the tutors typed.
var deliveredValues = map[string]bool{
	"TRUE":          true,
	"SI":            true,
	"X":             true,
	"1":             true,
	StatusEntregada: true,
}

// Normalize rewrites the table in place onto the canonical schema and
// returns it:
//
//  1. headers are trimmed and mapped through the synonym list; unknown
//     headers survive untouched as extra columns,
//  2. the delivery status column is coerced to ENTREGADA / PENDIENTE DE
//     ENTREGA (created all-pending when absent),
//  3. every canonical column missing from the input is created empty.
//
// Normalize is idempotent: running it over its own output changes nothing.
func Normalize(t *Table) *Table {
	for i, h := range t.Headers {
		h = trim(h)
		if canon, ok := synonyms[h]; ok {
			h = canon
		}
		t.Headers[i] = h
	}

	if c := t.colIdx(ColEntregadoStatus); c >= 0 {
		for i := range t.Rows {
			t.setCell(i, ColEntregadoStatus, normalizeStatus(t.Cell(i, ColEntregadoStatus)))
		}
	} else {
		t.addColumn(ColEntregadoStatus)
		for i := range t.Rows {
			t.setCell(i, ColEntregadoStatus, StatusPendiente)
		}
	}

	for _, col := range canonicalColumns {
		t.addColumn(col)
	}
	return t
}

func normalizeStatus(raw string) string {
	v := strings.ToUpper(trim(raw))
	if deliveredValues[v] {
		return StatusEntregada
	}
	return StatusPendiente
}
