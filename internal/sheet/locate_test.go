package sheet

import (
	"errors"
	"testing"
	"time"
)

func deliveryTable() *Table {
	t := &Table{
		Headers: []string{"FOLIO", "RUT", "RESPONSABLE", "ENTREGADO"},
		Rows: [][]string{
			{"A1", "11111111", "", "SI"},
			{"A2 ", " 22222222", "Previo", ""},
			{"A3", "33333333", "", ""},
		},
	}
	return Normalize(t)
}

func TestLocateByFolio(t *testing.T) {
	tbl := deliveryTable()

	idx, err := Locate(tbl, "A1", "")
	if err != nil {
		t.Fatalf("Locate(A1) error: %v", err)
	}
	if idx != 0 {
		t.Errorf("Locate(A1) = %d, want 0", idx)
	}

	// Both sides are trimmed before comparing.
	idx, err = Locate(tbl, " A2 ", "")
	if err != nil {
		t.Fatalf("Locate(' A2 ') error: %v", err)
	}
	if idx != 1 {
		t.Errorf("Locate(' A2 ') = %d, want 1", idx)
	}

	if _, err := Locate(tbl, "Z9", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Locate(Z9) error = %v, want ErrNotFound", err)
	}
}

func TestLocateFallsThroughToRut(t *testing.T) {
	tbl := deliveryTable()

	idx, err := Locate(tbl, "", "22222222")
	if err != nil {
		t.Fatalf("Locate(rut) error: %v", err)
	}
	if idx != 1 {
		t.Errorf("Locate(rut 22222222) = %d, want 1", idx)
	}

	// A folio that matches nothing does not block a valid rut.
	idx, err = Locate(tbl, "Z9", "33333333")
	if err != nil {
		t.Fatalf("Locate(bad folio, good rut) error: %v", err)
	}
	if idx != 2 {
		t.Errorf("Locate(bad folio, good rut) = %d, want 2", idx)
	}

	// But folio wins when both match different rows.
	idx, err = Locate(tbl, "A1", "33333333")
	if err != nil {
		t.Fatalf("Locate(both) error: %v", err)
	}
	if idx != 0 {
		t.Errorf("Locate(both) = %d, want 0 (folio priority)", idx)
	}
}

func TestLocateWithoutIdentifiers(t *testing.T) {
	tbl := deliveryTable()
	if _, err := Locate(tbl, "", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Locate with no identifiers = %v, want ErrNotFound", err)
	}
	if _, err := Locate(tbl, "   ", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Locate with blank folio = %v, want ErrNotFound", err)
	}
}

func TestMarkDelivered(t *testing.T) {
	tbl := deliveryTable()
	now := time.Date(2025, 4, 3, 15, 30, 45, 0, time.FixedZone("CLT", -4*3600))

	rec := MarkDelivered(tbl, 2, "María Paz", now)

	if rec[ColEntregadoStatus] != StatusEntregada {
		t.Errorf("status = %q, want %q", rec[ColEntregadoStatus], StatusEntregada)
	}
	if rec[ColResponsable] != "María Paz" {
		t.Errorf("responsable = %q, want María Paz", rec[ColResponsable])
	}
	if rec[ColFechaEntrega] != "2025-04-03 15:30:45" {
		t.Errorf("fecha = %q, want 2025-04-03 15:30:45", rec[ColFechaEntrega])
	}
	if _, err := time.Parse(FechaLayout, rec[ColFechaEntrega]); err != nil {
		t.Errorf("fecha %q does not parse with FechaLayout: %v", rec[ColFechaEntrega], err)
	}
}

func TestMarkDeliveredKeepsResponsableWhenEmpty(t *testing.T) {
	tbl := deliveryTable()
	now := time.Date(2025, 4, 3, 10, 0, 0, 0, time.UTC)

	rec := MarkDelivered(tbl, 1, "", now)
	if rec[ColResponsable] != "Previo" {
		t.Errorf("responsable = %q, want existing value Previo", rec[ColResponsable])
	}

	// Re-delivering overwrites without complaint.
	rec = MarkDelivered(tbl, 1, "Nuevo", now.Add(time.Hour))
	if rec[ColResponsable] != "Nuevo" {
		t.Errorf("responsable = %q, want Nuevo", rec[ColResponsable])
	}
	if rec[ColFechaEntrega] != "2025-04-03 11:00:00" {
		t.Errorf("fecha = %q, want 2025-04-03 11:00:00", rec[ColFechaEntrega])
	}
}
