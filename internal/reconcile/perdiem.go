package reconcile

import (
	"strings"

	"github.com/andy/tourbook/internal/domain"
)

type locationGroup struct {
	key   string
	label string
	days  int
}

// AggregatePerDiem produces one entry per distinct normalized itinerary
// location for the assigned guide. Locations without a catalog rate yield
// a zero-rate entry labelled with the itinerary's own spelling; days with a
// blank location are grouped into one such entry.
func AggregatePerDiem(itinerary []domain.ItineraryItem, guideID string, rates []domain.PerDiemRate) []domain.PerDiemEntry {
	if strings.TrimSpace(guideID) == "" {
		return []domain.PerDiemEntry{}
	}

	groups := make([]*locationGroup, 0)
	byKey := make(map[string]*locationGroup)
	for _, item := range itinerary {
		key := domain.NormalizeText(item.Location)
		g, ok := byKey[key]
		if !ok {
			g = &locationGroup{key: key, label: strings.TrimSpace(item.Location)}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.days++
	}

	entries := make([]domain.PerDiemEntry, 0, len(groups))
	for _, g := range groups {
		entry := domain.PerDiemEntry{
			ID:       domain.NewID(),
			GuideID:  guideID,
			Location: g.label,
			Days:     g.days,
		}
		if rate := findRate(g.key, rates); rate != nil {
			entry.Location = rate.Location
			entry.Rate = rate.Rate
		}
		entry.Total = float64(entry.Days) * entry.Rate
		entries = append(entries, entry)
	}
	return entries
}

func findRate(key string, rates []domain.PerDiemRate) *domain.PerDiemRate {
	if key == "" {
		return nil
	}
	for i := range rates {
		if domain.NormalizeText(rates[i].Location) == key {
			return &rates[i]
		}
	}
	return nil
}
