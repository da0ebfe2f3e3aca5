package reconcile

import (
	"testing"

	"github.com/andy/tourbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRates() []domain.PerDiemRate {
	return []domain.PerDiemRate{
		{ID: "r1", Location: "Hội An", Rate: 500000, Currency: "VND"},
		{ID: "r2", Location: "Huế", Rate: 550000, Currency: "VND"},
		{ID: "r3", Location: "Đà Nẵng", Rate: 450000, Currency: "VND"},
	}
}

func TestAggregatePerDiem_GroupsByNormalizedLocation(t *testing.T) {
	itinerary := []domain.ItineraryItem{
		{Day: 1, Location: "Hội An"},
		{Day: 2, Location: "hoi an"},
		{Day: 3, Location: "Huế"},
	}

	entries := AggregatePerDiem(itinerary, "guide-1", testRates())

	require.Len(t, entries, 2)
	assert.Equal(t, "Hội An", entries[0].Location)
	assert.Equal(t, 2, entries[0].Days)
	assert.Equal(t, 1000000.0, entries[0].Total)
	assert.Equal(t, "Huế", entries[1].Location)
	assert.Equal(t, 1, entries[1].Days)
	assert.Equal(t, 550000.0, entries[1].Total)
	for _, e := range entries {
		assert.Equal(t, "guide-1", e.GuideID)
		assert.NotEmpty(t, e.ID)
	}
}

func TestAggregatePerDiem_DaNangVariants(t *testing.T) {
	itinerary := []domain.ItineraryItem{
		{Day: 1, Location: "Đà Nẵng"},
		{Day: 2, Location: "da nang"},
	}

	entries := AggregatePerDiem(itinerary, "guide-1", nil)

	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Days)
}

func TestAggregatePerDiem_CanonicalLabelFromCatalog(t *testing.T) {
	entries := AggregatePerDiem([]domain.ItineraryItem{{Location: " DA NANG "}}, "g", testRates())

	require.Len(t, entries, 1)
	assert.Equal(t, "Đà Nẵng", entries[0].Location)
	assert.Equal(t, 450000.0, entries[0].Rate)
}

func TestAggregatePerDiem_UnknownLocationZeroRate(t *testing.T) {
	entries := AggregatePerDiem([]domain.ItineraryItem{{Location: "Sapa"}, {Location: "sapa"}}, "g", testRates())

	require.Len(t, entries, 1)
	assert.Equal(t, "Sapa", entries[0].Location)
	assert.Equal(t, 2, entries[0].Days)
	assert.Zero(t, entries[0].Rate)
	assert.Zero(t, entries[0].Total)
}

func TestAggregatePerDiem_NoGuide(t *testing.T) {
	itinerary := []domain.ItineraryItem{{Location: "Huế"}}

	assert.Empty(t, AggregatePerDiem(itinerary, "", testRates()))
	assert.Empty(t, AggregatePerDiem(itinerary, "  ", testRates()))
}

func TestAggregatePerDiem_BlankLocationsGetZeroRateEntry(t *testing.T) {
	rates := append(testRates(), domain.PerDiemRate{ID: "blank", Location: " ", Rate: 999})
	entries := AggregatePerDiem([]domain.ItineraryItem{
		{Day: 1, Location: ""},
		{Day: 2, Location: "Huế"},
		{Day: 3, Location: "   "},
	}, "g", rates)

	require.Len(t, entries, 2)
	assert.Equal(t, "", entries[0].Location)
	assert.Equal(t, 2, entries[0].Days)
	assert.Zero(t, entries[0].Rate)
	assert.Zero(t, entries[0].Total)
	assert.Equal(t, 1, entries[1].Days)
}
