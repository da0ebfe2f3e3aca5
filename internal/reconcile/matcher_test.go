package reconcile

import (
	"testing"

	"github.com/andy/tourbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []domain.Service {
	return []domain.Service{
		{ID: "s-banahills", Name: "Vé tham quan Bà Nà Hills", Price: 850000},
		{ID: "s-hotel", Name: "Khách sạn Hội An 4 sao", Price: 1200000},
		{ID: "s-hotel-2", Name: "Khách sạn Hội An 3 sao", Price: 900000},
	}
}

func TestMatchService_SubstringIgnoresCaseAndAccents(t *testing.T) {
	m := MatchService(domain.ExtractionServiceCandidate{RawName: "ba na hills", Quantity: 4, Price: 790000}, testCatalog())

	require.True(t, m.Matched())
	assert.Equal(t, "s-banahills", m.Service.ID)
	assert.Equal(t, 850000.0, m.NormalizedPrice)
	assert.Equal(t, 60000.0, m.Discrepancy)
}

func TestMatchService_FirstMatchInCatalogOrder(t *testing.T) {
	m := MatchService(domain.ExtractionServiceCandidate{RawName: "Khách sạn Hội An", Price: 1000000}, testCatalog())

	require.True(t, m.Matched())
	assert.Equal(t, "s-hotel", m.Service.ID)
}

func TestMatchService_NoMatchFallsBack(t *testing.T) {
	m := MatchService(domain.ExtractionServiceCandidate{RawName: "Unknown Thing XYZ", Price: 999}, testCatalog())

	assert.False(t, m.Matched())
	assert.Equal(t, 999.0, m.NormalizedPrice)
	assert.Zero(t, m.Discrepancy)
}

func TestMatchService_RequiresLiteralContainment(t *testing.T) {
	m := MatchService(domain.ExtractionServiceCandidate{RawName: "Bana Ticket", Quantity: 4, Price: 790000}, testCatalog())

	assert.False(t, m.Matched())
	assert.Equal(t, 790000.0, m.NormalizedPrice)
	assert.Zero(t, m.Discrepancy)
}

func TestMatchService_BlankNameNeverMatches(t *testing.T) {
	for _, name := range []string{"", "   ", "\t"} {
		m := MatchService(domain.ExtractionServiceCandidate{RawName: name, Price: 10}, testCatalog())
		assert.False(t, m.Matched(), "name %q", name)
		assert.Equal(t, 10.0, m.NormalizedPrice)
	}
}

func TestMatchService_ReturnsCopyOfCatalogEntry(t *testing.T) {
	catalog := testCatalog()
	m := MatchService(domain.ExtractionServiceCandidate{RawName: "Bà Nà"}, catalog)
	require.True(t, m.Matched())

	m.Service.Price = 1
	assert.Equal(t, 850000.0, catalog[0].Price)
}

func TestBuildServices_DiscrepancyInvariant(t *testing.T) {
	candidates := []domain.ExtractionServiceCandidate{
		{RawName: "Bà Nà Hills", Quantity: 4, Price: 790000},
		{RawName: "Unknown Thing XYZ", Quantity: 1, Price: 999},
		{RawName: "3 sao", Quantity: 2, Price: 950000},
	}

	lines := BuildServices(MatchServices(candidates, testCatalog()))

	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Equal(t, l.UnitPrice-l.SourcePrice, l.Discrepancy, l.Description)
	}
	assert.Equal(t, "s-banahills", lines[0].ServiceID)
	assert.Equal(t, 999.0, lines[1].UnitPrice)
	assert.Equal(t, -50000.0, lines[2].Discrepancy)
}
