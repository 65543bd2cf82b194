package sheet

import (
	"errors"
	"time"
)

// ErrNotFound reports that no row matched the supplied identifiers.
var ErrNotFound = errors.New("registro no encontrado")

// FechaLayout is the timestamp format written into FechaEntrega.
const FechaLayout = "2006-01-02 15:04:05"

// Locate finds the row for a delivery update. The folio is checked first
// against the Folio column; when it is empty or matches nothing, the rut is
// checked against the RUT column. Comparison is exact string equality after
// trimming both sides. Supplying neither identifier is ErrNotFound.
func Locate(t *Table, folio, rut string) (int, error) {
	if f := trim(folio); f != "" {
		if i := matchColumn(t, ColFolio, f); i >= 0 {
			return i, nil
		}
	}
	if r := trim(rut); r != "" {
		if i := matchColumn(t, ColRUT, r); i >= 0 {
			return i, nil
		}
	}
	return 0, ErrNotFound
}

func matchColumn(t *Table, col, want string) int {
	if t.colIdx(col) < 0 {
		return -1
	}
	for i := range t.Rows {
		if trim(t.Cell(i, col)) == want {
			return i
		}
	}
	return -1
}

// MarkDelivered applies a delivery to row idx: status becomes ENTREGADA, the
// responsable is replaced only when a non-empty one is given, and the
// delivery timestamp is stamped from now (callers pass wall-clock time
// already in the Chilean zone). Re-delivering an already delivered row just
// overwrites the responsable and timestamp. Returns the updated row.
func MarkDelivered(t *Table, idx int, responsable string, now time.Time) map[string]string {
	t.setCell(idx, ColEntregadoStatus, StatusEntregada)
	if r := trim(responsable); r != "" {
		t.setCell(idx, ColResponsable, r)
	}
	t.setCell(idx, ColFechaEntrega, now.Format(FechaLayout))
	return t.Record(idx)
}
