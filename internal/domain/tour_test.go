package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTourService_Matched(t *testing.T) {
	svc := &Service{ID: "svc-1", Name: "Vé tham quan Bà Nà Hills", Price: 850000}
	line := NewTourService(MatchedService{
		Candidate:       ExtractionServiceCandidate{RawName: "Bà Nà", Quantity: 4, Price: 790000},
		Service:         svc,
		NormalizedPrice: 850000,
		Discrepancy:     60000,
	})

	assert.Equal(t, "svc-1", line.ServiceID)
	assert.NotEmpty(t, line.ID)
	assert.Equal(t, 850000.0, line.UnitPrice)
	assert.Equal(t, 790000.0, line.SourcePrice)
	assert.Equal(t, line.UnitPrice-line.SourcePrice, line.Discrepancy)
	assert.Equal(t, 3400000.0, line.Amount())
}

func TestNewTourService_UnmatchedGetsFreshID(t *testing.T) {
	line := NewTourService(MatchedService{
		Candidate:       ExtractionServiceCandidate{RawName: "Unknown Thing XYZ", Quantity: 1, Price: 999},
		NormalizedPrice: 999,
	})

	assert.NotEmpty(t, line.ServiceID)
	assert.NotEqual(t, line.ID, line.ServiceID)
	assert.Zero(t, line.Discrepancy)
}

func TestTourService_SetUnitPrice(t *testing.T) {
	line := TourService{UnitPrice: 100, SourcePrice: 80, Discrepancy: 20}
	line.SetUnitPrice(70)
	assert.Equal(t, -10.0, line.Discrepancy)
}

func TestTour_CloneIsDeep(t *testing.T) {
	tour := NewTour(GeneralInfo{Code: "SGN-01"})
	tour.Itinerary = []ItineraryItem{{Day: 1, Location: "Huế", Activities: []string{"Citadel"}}}
	tour.Services = []TourService{{ID: "a", Quantity: 1, UnitPrice: 10}}

	c := tour.Clone()
	c.Itinerary[0].Activities[0] = "Changed"
	c.Services[0].UnitPrice = 99
	c.General.Code = "X"

	require.Len(t, tour.Itinerary, 1)
	assert.Equal(t, "Citadel", tour.Itinerary[0].Activities[0])
	assert.Equal(t, 10.0, tour.Services[0].UnitPrice)
	assert.Equal(t, "SGN-01", tour.General.Code)
}

func TestTour_StoreKey(t *testing.T) {
	tour := NewTour(GeneralInfo{Code: "SGN 01"})
	assert.Equal(t, "sgn-01", tour.StoreKey())

	tour.General.Code = "  "
	assert.Equal(t, tour.ID, tour.StoreKey())
}
