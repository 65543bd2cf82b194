package stats

import (
	"testing"
	"time"

	"github.com/tne-registro/tne-backend/internal/sheet"
)

var clt = time.FixedZone("CLT", -4*3600)

// now is 2025-04-15 midday for every test.
var testNow = time.Date(2025, 4, 15, 12, 0, 0, 0, clt)

func normalized(headers []string, rows [][]string) *sheet.Table {
	return sheet.Normalize(&sheet.Table{Headers: headers, Rows: rows})
}

func TestComputeCounts(t *testing.T) {
	tbl := normalized(
		[]string{"FOLIO", "ENTREGADO"},
		[][]string{
			{"A1", "SI"},
			{"A2", ""},
		},
	)

	s := Compute(tbl, testNow)
	if s.TotalRegistros != 2 || s.EntregadosTotal != 1 || s.PendientesTotal != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1",
			s.TotalRegistros, s.EntregadosTotal, s.PendientesTotal)
	}
	if s.PorcentajeEntregado != 50.0 {
		t.Errorf("porcentaje = %v, want 50.0", s.PorcentajeEntregado)
	}
	if s.EntregadosTotal+s.PendientesTotal != s.TotalRegistros {
		t.Error("delivered + pending != total")
	}
	if s.Status != "ok" {
		t.Errorf("status = %q, want ok", s.Status)
	}
}

func TestComputeEmptyTable(t *testing.T) {
	s := Compute(normalized([]string{"FOLIO"}, nil), testNow)
	if s.TotalRegistros != 0 {
		t.Errorf("total = %d, want 0", s.TotalRegistros)
	}
	if s.PorcentajeEntregado != 0 {
		t.Errorf("porcentaje = %v, want 0 (no division by zero)", s.PorcentajeEntregado)
	}
	if s.Historial == nil || s.Ranking == nil {
		t.Error("historial/ranking must be empty slices, not nil")
	}
}

func TestComputePercentRounding(t *testing.T) {
	tbl := normalized(
		[]string{"FOLIO", "ENTREGADO"},
		[][]string{{"A1", "SI"}, {"A2", ""}, {"A3", ""}},
	)
	s := Compute(tbl, testNow)
	if s.PorcentajeEntregado != 33.3 {
		t.Errorf("porcentaje = %v, want 33.3", s.PorcentajeEntregado)
	}
}

func TestComputeRanking(t *testing.T) {
	tbl := normalized(
		[]string{"FOLIO", "ENTREGADO", "RESPONSABLE"},
		[][]string{
			{"A1", "SI", "ana"},
			{"A2", "SI", " ANA "},
			{"A3", "SI", "beto"},
			{"A4", "SI", "nan"},
			{"A5", "SI", ""},
			{"A6", "SI", "none"},
			{"A7", "", "carla"}, // pending, never counted
		},
	)

	s := Compute(tbl, testNow)
	if len(s.Ranking) != 2 {
		t.Fatalf("ranking size = %d, want 2 (%v)", len(s.Ranking), s.Ranking)
	}
	if s.Ranking[0].Nombre != "ANA" || s.Ranking[0].Cantidad != 2 {
		t.Errorf("ranking[0] = %+v, want ANA/2", s.Ranking[0])
	}
	if s.Ranking[1].Nombre != "BETO" || s.Ranking[1].Cantidad != 1 {
		t.Errorf("ranking[1] = %+v, want BETO/1", s.Ranking[1])
	}

	sum := 0
	for _, e := range s.Ranking {
		if e.Nombre == "" {
			t.Error("ranking contains an empty name")
		}
		sum += e.Cantidad
	}
	if sum > s.EntregadosTotal {
		t.Errorf("ranking sum %d exceeds delivered total %d", sum, s.EntregadosTotal)
	}
}

func TestComputeRankingTopFiveStableTies(t *testing.T) {
	rows := [][]string{}
	for _, name := range []string{"F", "A", "B", "C", "D", "E"} {
		rows = append(rows, []string{"x", "SI", name})
	}
	// F gets a second delivery so it must lead.
	rows = append(rows, []string{"x", "SI", "F"})

	s := Compute(normalized([]string{"FOLIO", "ENTREGADO", "RESPONSABLE"}, rows), testNow)
	if len(s.Ranking) != 5 {
		t.Fatalf("ranking size = %d, want 5", len(s.Ranking))
	}
	if s.Ranking[0].Nombre != "F" {
		t.Errorf("ranking[0] = %q, want F", s.Ranking[0].Nombre)
	}
	// Ties keep first-seen order: A, B, C, D fill the rest; E is cut.
	for i, want := range []string{"A", "B", "C", "D"} {
		if got := s.Ranking[i+1].Nombre; got != want {
			t.Errorf("ranking[%d] = %q, want %q", i+1, got, want)
		}
	}
}

func TestComputeHistoryAndToday(t *testing.T) {
	tbl := normalized(
		[]string{"FOLIO", "ENTREGADO", "FECHA DE ENTREGA"},
		[][]string{
			{"A1", "SI", "2025-04-15 09:30:00"}, // today
			{"A2", "SI", "15/04/2025"},          // today, day-first
			{"A3", "SI", "2025-04-01"},          // inside window
			{"A4", "SI", "2025-03-01 08:00:00"}, // outside window
			{"A5", "SI", "2025-05-01"},          // future, excluded
			{"A6", "SI", "sin fecha"},           // unparseable, skipped
			{"A7", "", "2025-04-15 10:00:00"},   // pending but dated today
			{"A8", "SI", ""},
		},
	)

	s := Compute(tbl, testNow)
	if s.EntregadosHoy != 3 {
		t.Errorf("entregados_hoy = %d, want 3", s.EntregadosHoy)
	}

	want := []HistoryEntry{
		{Fecha: "2025-04-01", Cantidad: 1},
		{Fecha: "2025-04-15", Cantidad: 3},
	}
	if len(s.Historial) != len(want) {
		t.Fatalf("historial = %v, want %v", s.Historial, want)
	}
	for i := range want {
		if s.Historial[i] != want[i] {
			t.Errorf("historial[%d] = %+v, want %+v", i, s.Historial[i], want[i])
		}
	}
}

func TestParseFechaDayFirst(t *testing.T) {
	// 03/04/2025 must read as 3 April, not 4 March.
	day, ok := parseFecha("03/04/2025", clt)
	if !ok {
		t.Fatal("03/04/2025 did not parse")
	}
	if day != "2025-04-03" {
		t.Errorf("day = %q, want 2025-04-03", day)
	}

	for _, raw := range []string{"", "  ", "nan", "NaT", "None"} {
		if _, ok := parseFecha(raw, clt); ok {
			t.Errorf("placeholder %q should not parse", raw)
		}
	}
}
