package reconcile

import (
	"math"
	"testing"

	"github.com/andy/tourbook/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeFinancials_Settlement(t *testing.T) {
	services := []domain.TourService{
		{Quantity: 2, UnitPrice: 500000},
		{Quantity: 4, UnitPrice: 250000},
	}
	perDiem := []domain.PerDiemEntry{{Days: 1, Rate: 500000, Total: 500000}}
	expenses := []domain.Expense{{Amount: 60000}, {Amount: 40000}}

	got := NormalizeFinancials(domain.FinancialSummary{
		Advance:               3000000,
		CollectionsForCompany: 0,
		CompanyTip:            200000,
	}, services, perDiem, expenses)

	assert.Equal(t, 2600000.0, got.TotalCost)
	assert.Equal(t, 200000.0, got.DifferenceToAdvance)
	assert.Equal(t, 3000000.0, got.Advance)
	assert.Equal(t, 200000.0, got.CompanyTip)
}

func TestNormalizeFinancials_ClampsInputs(t *testing.T) {
	got := NormalizeFinancials(domain.FinancialSummary{
		Advance:               -500,
		CollectionsForCompany: math.NaN(),
		CompanyTip:            math.Inf(1),
	}, nil, nil, nil)

	assert.Zero(t, got.Advance)
	assert.Zero(t, got.CollectionsForCompany)
	assert.Zero(t, got.CompanyTip)
	assert.Zero(t, got.TotalCost)
	assert.Zero(t, got.DifferenceToAdvance)
}

func TestNormalizeFinancials_NegativeDifferenceMeansTopUp(t *testing.T) {
	got := NormalizeFinancials(domain.FinancialSummary{Advance: 100},
		[]domain.TourService{{Quantity: 1, UnitPrice: 300}}, nil, nil)

	assert.Equal(t, -200.0, got.DifferenceToAdvance)
}

func TestNormalizeFinancials_IgnoresStaleDerivedValues(t *testing.T) {
	got := NormalizeFinancials(domain.FinancialSummary{TotalCost: 12345, DifferenceToAdvance: 1}, nil, nil, nil)

	assert.Zero(t, got.TotalCost)
	assert.Zero(t, got.DifferenceToAdvance)
}

func TestNormalizeFinancials_Closure(t *testing.T) {
	services := []domain.TourService{{Quantity: 3, UnitPrice: 120000}, {Quantity: 1, UnitPrice: 75000}}
	perDiem := []domain.PerDiemEntry{{Total: 1000000}, {Total: 550000}}
	expenses := []domain.Expense{{Amount: 30000}}
	in := domain.FinancialSummary{Advance: 2500000, CollectionsForCompany: 400000, CompanyTip: 150000}

	got := NormalizeFinancials(in, services, perDiem, expenses)

	wantTotal := 3*120000.0 + 75000 + 1000000 + 550000 + 30000
	assert.Equal(t, wantTotal, got.TotalCost)
	assert.Equal(t, in.Advance+in.CollectionsForCompany-(wantTotal+in.CompanyTip), got.DifferenceToAdvance)
}
