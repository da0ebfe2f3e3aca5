package reconcile

import (
	"github.com/andy/tourbook/internal/domain"
)

// Recompute returns a copy of the tour with every derived field rebuilt:
// service discrepancies, per diem from itinerary + guide + rate table, and
// the financial summary. The input tour is not modified.
//
// Per diem entries that survive unchanged in location and guide keep their
// previous ids, so recomputing an unchanged tour yields an identical tour.
func Recompute(t *domain.Tour, rates []domain.PerDiemRate) *domain.Tour {
	out := t.Clone()

	for i := range out.Services {
		s := &out.Services[i]
		s.Discrepancy = s.UnitPrice - s.SourcePrice
	}

	perDiem := AggregatePerDiem(out.Itinerary, out.General.GuideID, rates)
	carryPerDiemIDs(perDiem, t.PerDiem)
	out.PerDiem = perDiem

	out.Financials = NormalizeFinancials(out.Financials, out.Services, out.PerDiem, out.OtherExpenses)
	return out
}

func carryPerDiemIDs(next, prev []domain.PerDiemEntry) {
	ids := make(map[string]string, len(prev))
	for _, p := range prev {
		ids[p.GuideID+"\x00"+domain.NormalizeText(p.Location)] = p.ID
	}
	for i := range next {
		if id, ok := ids[next[i].GuideID+"\x00"+domain.NormalizeText(next[i].Location)]; ok && id != "" {
			next[i].ID = id
		}
	}
}
