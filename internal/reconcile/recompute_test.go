package reconcile

import (
	"testing"

	"github.com/andy/tourbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTour() *domain.Tour {
	t := domain.NewTour(domain.GeneralInfo{Code: "SGN-01", GuideID: "guide-1"})
	t.Itinerary = []domain.ItineraryItem{
		{Day: 1, Location: "Hội An"},
		{Day: 2, Location: "hoi an"},
		{Day: 3, Location: "Huế"},
	}
	t.Services = []domain.TourService{
		{ID: "l1", Quantity: 2, UnitPrice: 500000, SourcePrice: 450000, Discrepancy: 0},
	}
	t.OtherExpenses = []domain.Expense{{ID: "e1", Amount: 100000}}
	t.Financials = domain.FinancialSummary{Advance: 3000000, CompanyTip: 200000}
	return t
}

func TestRecompute_DerivesEverything(t *testing.T) {
	in := sampleTour()

	out := Recompute(in, testRates())

	require.Len(t, out.PerDiem, 2)
	assert.Equal(t, 50000.0, out.Services[0].Discrepancy)
	assert.Equal(t, 1000000.0+1000000.0+550000.0+100000.0, out.Financials.TotalCost)
	assert.Equal(t, 3000000.0-(2650000.0+200000.0), out.Financials.DifferenceToAdvance)

	// input untouched
	assert.Empty(t, in.PerDiem)
	assert.Zero(t, in.Services[0].Discrepancy)
}

func TestRecompute_Idempotent(t *testing.T) {
	first := Recompute(sampleTour(), testRates())
	second := Recompute(first, testRates())
	third := Recompute(second, testRates())

	assert.Equal(t, first, second)
	assert.Equal(t, second, third)
}

func TestAggregateThenNormalize_SameInputsSameOutput(t *testing.T) {
	tour := sampleTour()
	run := func() ([]domain.PerDiemEntry, domain.FinancialSummary) {
		pd := AggregatePerDiem(tour.Itinerary, tour.General.GuideID, testRates())
		fs := NormalizeFinancials(tour.Financials, tour.Services, pd, tour.OtherExpenses)
		for i := range pd {
			pd[i].ID = ""
		}
		return pd, fs
	}

	pd1, fs1 := run()
	pd2, fs2 := run()

	assert.Equal(t, pd1, pd2)
	assert.Equal(t, fs1, fs2)
}

func TestRecompute_GuideRemovedClearsPerDiem(t *testing.T) {
	tour := Recompute(sampleTour(), testRates())
	tour.General.GuideID = ""

	out := Recompute(tour, testRates())

	assert.Empty(t, out.PerDiem)
	assert.Equal(t, 1000000.0+100000.0, out.Financials.TotalCost)
}

func TestRecompute_ItineraryChangeReprices(t *testing.T) {
	tour := Recompute(sampleTour(), testRates())
	tour.Itinerary = append(tour.Itinerary, domain.ItineraryItem{Day: 4, Location: "HUE"})

	out := Recompute(tour, testRates())

	require.Len(t, out.PerDiem, 2)
	assert.Equal(t, 2, out.PerDiem[1].Days)
	assert.Equal(t, tour.PerDiem[1].ID, out.PerDiem[1].ID)
	assert.Equal(t, 1100000.0, out.PerDiem[1].Total)
}
