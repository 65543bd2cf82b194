package sheet

import (
	"reflect"
	"testing"
)

func TestSerializeColumnOrder(t *testing.T) {
	tbl := Normalize(&Table{
		Headers: []string{"Observación", "FOLIO", "Sede", "RUT", "ENTREGADO"},
		Rows: [][]string{
			{"nota", "A1", "Central", "11111111", "SI"},
		},
	})

	data, err := Serialize(tbl)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	out, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := append(append([]string{}, canonicalColumns...), "Observación", "Sede")
	if !reflect.DeepEqual(out.Headers, want) {
		t.Errorf("column order:\n got %v\nwant %v", out.Headers, want)
	}
	if got := out.Cell(0, "Sede"); got != "Central" {
		t.Errorf("Sede = %q, want Central", got)
	}
}

func TestSerializePreservesRowOrder(t *testing.T) {
	tbl := Normalize(&Table{
		Headers: []string{"FOLIO"},
		Rows:    [][]string{{"B2"}, {"A1"}, {"C3"}},
	})

	data, err := Serialize(tbl)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	out, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	for i, want := range []string{"B2", "A1", "C3"} {
		if got := out.Cell(i, ColFolio); got != want {
			t.Errorf("row %d Folio = %q, want %q", i, got, want)
		}
	}
}

// normalize(parse(serialize(normalize(T)))) must equal normalize(T) on the
// canonical fields.
func TestRoundTrip(t *testing.T) {
	tbl := Normalize(&Table{
		Headers: []string{"N° DE FOLIO", "RUT", "NOMBRE", "MAIL", "ENTREGADO", "FECHA DE ENTREGA", "Extra"},
		Rows: [][]string{
			{"A1", "11111111", "Ana Soto", "ana@x.com", "si", "2025-03-01 10:00:00", "e1"},
			{"A2", "22222222", "Beto Díaz", "", "no", "", "e2"},
		},
	})

	data, err := Serialize(tbl)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	again, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	Normalize(again)

	if again.Len() != tbl.Len() {
		t.Fatalf("row count changed: %d != %d", again.Len(), tbl.Len())
	}
	for i := 0; i < tbl.Len(); i++ {
		for _, col := range canonicalColumns {
			if got, want := again.Cell(i, col), tbl.Cell(i, col); got != want {
				t.Errorf("row %d %s = %q after round trip, want %q", i, col, got, want)
			}
		}
		if got, want := again.Cell(i, "Extra"), tbl.Cell(i, "Extra"); got != want {
			t.Errorf("row %d Extra = %q after round trip, want %q", i, got, want)
		}
	}
}
