// Package stats computes the dashboard aggregates over a normalized
// delivery table.
package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tne-registro/tne-backend/internal/sheet"
)

// RankingEntry is one row of the per-responsable leaderboard.
type RankingEntry struct {
	Nombre   string `json:"nombre"`
	Cantidad int    `json:"cantidad"`
}

// HistoryEntry is the delivery count for one calendar day.
type HistoryEntry struct {
	Fecha    string `json:"fecha"`
	Cantidad int    `json:"cantidad"`
}

// Stats mirrors the dashboard payload the frontend consumes.
type Stats struct {
	Status              string         `json:"status"`
	TotalRegistros      int            `json:"total_registros"`
	EntregadosTotal     int            `json:"entregados_total"`
	PendientesTotal     int            `json:"pendientes_total"`
	EntregadosHoy       int            `json:"entregados_hoy"`
	PorcentajeEntregado float64        `json:"porcentaje_entregado"`
	Historial           []HistoryEntry `json:"historial"`
	Ranking             []RankingEntry `json:"ranking"`
}

// rankingSize caps the leaderboard.
const rankingSize = 5

// excludedResponsables are normalized names that don't identify a person.
var excludedResponsables = map[string]bool{
	"": true, "NAN": true, "NONE": true, "BLANK": true,
}

// dateLayout is how history dates are rendered.
const dateLayout = "2006-01-02"

// fechaLayouts are the accepted FechaEntrega formats. Only day-first
// variants are listed for the ambiguous slash/dash forms, so a date like
// 03/04/2025 reads as 3 April.
var fechaLayouts = []string{
	sheet.FechaLayout,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02-01-2006",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006",
}

// Compute builds the dashboard aggregates. now must already be in the
// Chilean civil zone; "today" and the 30-day history window are taken from
// its calendar date.
func Compute(t *sheet.Table, now time.Time) Stats {
	s := Stats{
		Status:         "ok",
		TotalRegistros: t.Len(),
		Historial:      []HistoryEntry{},
		Ranking:        []RankingEntry{},
	}

	today := now.Format(dateLayout)
	cutoff := now.AddDate(0, 0, -30).Format(dateLayout)

	counts := map[string]int{}
	var firstSeen []string
	histCounts := map[string]int{}

	for i := 0; i < t.Len(); i++ {
		delivered := t.Cell(i, sheet.ColEntregadoStatus) == sheet.StatusEntregada
		if delivered {
			s.EntregadosTotal++
			name := strings.ToUpper(strings.TrimSpace(t.Cell(i, sheet.ColResponsable)))
			if !excludedResponsables[name] {
				if _, ok := counts[name]; !ok {
					firstSeen = append(firstSeen, name)
				}
				counts[name]++
			}
		}

		day, ok := parseFecha(t.Cell(i, sheet.ColFechaEntrega), now.Location())
		if !ok {
			continue
		}
		if day == today {
			s.EntregadosHoy++
		}
		if day >= cutoff && day <= today {
			histCounts[day]++
		}
	}

	s.PendientesTotal = s.TotalRegistros - s.EntregadosTotal
	if s.TotalRegistros > 0 {
		pct := float64(s.EntregadosTotal) / float64(s.TotalRegistros) * 100
		s.PorcentajeEntregado = math.Round(pct*10) / 10
	}

	// Leaderboard: count descending, first-seen order breaks ties.
	sort.SliceStable(firstSeen, func(a, b int) bool {
		return counts[firstSeen[a]] > counts[firstSeen[b]]
	})
	for _, name := range firstSeen {
		if len(s.Ranking) == rankingSize {
			break
		}
		s.Ranking = append(s.Ranking, RankingEntry{Nombre: name, Cantidad: counts[name]})
	}

	// History stays sparse: only days with at least one delivery.
	days := make([]string, 0, len(histCounts))
	for d := range histCounts {
		days = append(days, d)
	}
	sort.Strings(days)
	for _, d := range days {
		s.Historial = append(s.Historial, HistoryEntry{Fecha: d, Cantidad: histCounts[d]})
	}
	return s
}

// parseFecha extracts the calendar date from a raw FechaEntrega value.
// Blank or placeholder values and anything unparseable are skipped, not
// treated as errors.
func parseFecha(raw string, loc *time.Location) (string, bool) {
	v := strings.TrimSpace(raw)
	switch strings.ToLower(v) {
	case "", "nan", "nat", "none":
		return "", false
	}
	for _, layout := range fechaLayouts {
		if ts, err := time.ParseInLocation(layout, v, loc); err == nil {
			return ts.Format(dateLayout), true
		}
	}
	return "", false
}
