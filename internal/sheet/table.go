// Package sheet implements the spreadsheet core: parsing, header
// normalization, row lookup, delivery updates and re-serialization of the
// TNE delivery table.
package sheet

import "strings"

/* ───────── canonical column layout (keep order) ───────── */

// Canonical field names as they appear in the master spreadsheet.
const (
	ColFolio             = "Folio"
	ColRUT               = "RUT"
	ColDigitoVerificador = "DigitoVerificador"
	ColGuiaDespacho      = "GuiaDespacho"
	ColNumeroGuia        = "NumeroGuia"
	ColNombreCompleto    = "NOMBRE COMPLETO"
	ColMail              = "Mail"
	ColResponsable       = "Responsable"
	ColFechaEntrega      = "FechaEntrega"
	ColEntregadoStatus   = "EntregadoStatus"
)

// Canonical values for ColEntregadoStatus.
const (
	StatusEntregada = "ENTREGADA"
	StatusPendiente = "PENDIENTE DE ENTREGA"
)

// canonicalColumns is the serialization order. Extra columns found in the
// input keep their original relative order after these ten.
var canonicalColumns = []string{
	ColFolio, ColRUT, ColDigitoVerificador, ColGuiaDespacho, ColNumeroGuia,
	ColNombreCompleto, ColMail, ColResponsable, ColFechaEntrega, ColEntregadoStatus,
}

/* ───────── header synonyms (trimmed, case-sensitive) ───────── */

// synonyms maps the header variants seen in the human-edited workbooks onto
// canonical names. Every canonical name maps to itself so Normalize is
// idempotent.
var synonyms = map[string]string{
	"RUT":                 ColRUT,
	"N° DE FOLIO":         ColFolio,
	"FOLIO":               ColFolio,
	"Folio":               ColFolio,
	"NOMBRE":              ColNombreCompleto,
	"NOMBRE COMPLETO":     ColNombreCompleto,
	"MAIL":                ColMail,
	"Mail":                ColMail,
	"ESTADO DE ENTREGA":   ColEntregadoStatus,
	"ENTREGADO":           ColEntregadoStatus,
	"EntregadoStatus":     ColEntregadoStatus,
	"FECHA DE ENTREGA":    ColFechaEntrega,
	"FechaEntrega":        ColFechaEntrega,
	"RESPONSABLE":         ColResponsable,
	"Responsable":         ColResponsable,
	"DV":                  ColDigitoVerificador,
	"DigitoVerificador":   ColDigitoVerificador,
	"N° DE GUIA DESPACHO": ColGuiaDespacho,
	"GuiaDespacho":        ColGuiaDespacho,
	"N° DE GUIA":          ColNumeroGuia,
	"NumeroGuia":          ColNumeroGuia,
}

/* ───────── table ───────── */

// Table is one worksheet held in memory: a header row plus data rows, every
// cell a string. Row order is preserved through normalize → mutate →
// serialize. A Table lives for a single request only.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// colIdx returns the index of the first column named name, or -1.
func (t *Table) colIdx(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, column name); empty string when the column
// is missing or the row is shorter than the header.
func (t *Table) Cell(row int, name string) string {
	c := t.colIdx(name)
	if c < 0 || row < 0 || row >= len(t.Rows) || c >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][c]
}

// setCell writes a value, padding the row out to the header width first.
func (t *Table) setCell(row int, name, value string) {
	c := t.colIdx(name)
	if c < 0 || row < 0 || row >= len(t.Rows) {
		return
	}
	for len(t.Rows[row]) <= c {
		t.Rows[row] = append(t.Rows[row], "")
	}
	t.Rows[row][c] = value
}

// addColumn appends an all-empty column unless one with that name exists.
func (t *Table) addColumn(name string) {
	if t.colIdx(name) >= 0 {
		return
	}
	t.Headers = append(t.Headers, name)
}

// Record returns row i as a header→value map. Missing cells come back as
// empty strings, so the result always carries every column.
func (t *Table) Record(i int) map[string]string {
	rec := make(map[string]string, len(t.Headers))
	for c, h := range t.Headers {
		v := ""
		if i >= 0 && i < len(t.Rows) && c < len(t.Rows[i]) {
			v = t.Rows[i][c]
		}
		rec[h] = v
	}
	return rec
}

// Records returns every row as a map, in table order.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for i := range t.Rows {
		out = append(out, t.Record(i))
	}
	return out
}

// extraColumns lists the non-canonical headers in their original order.
func (t *Table) extraColumns() []string {
	canon := make(map[string]bool, len(canonicalColumns))
	for _, c := range canonicalColumns {
		canon[c] = true
	}
	var extra []string
	for _, h := range t.Headers {
		if !canon[h] {
			extra = append(extra, h)
		}
	}
	return extra
}

func trim(s string) string { return strings.TrimSpace(s) }
