package reconcile

import (
	"math"

	"github.com/andy/tourbook/internal/domain"
	"github.com/shopspring/decimal"
)

// NormalizeFinancials recomputes the summary from its inputs. Advance,
// collections and tip are clamped to >= 0; non-finite values count as 0.
// Service quantities and prices are taken as already validated.
func NormalizeFinancials(
	current domain.FinancialSummary,
	services []domain.TourService,
	perDiem []domain.PerDiemEntry,
	expenses []domain.Expense,
) domain.FinancialSummary {
	advance := clampAmount(current.Advance)
	collections := clampAmount(current.CollectionsForCompany)
	tip := clampAmount(current.CompanyTip)

	serviceTotal := decimal.Zero
	for _, s := range services {
		serviceTotal = serviceTotal.Add(amount(s.UnitPrice).Mul(amount(s.Quantity)))
	}
	perDiemTotal := decimal.Zero
	for _, p := range perDiem {
		perDiemTotal = perDiemTotal.Add(amount(p.Total))
	}
	miscTotal := decimal.Zero
	for _, e := range expenses {
		miscTotal = miscTotal.Add(amount(e.Amount))
	}

	totalCost := serviceTotal.Add(perDiemTotal).Add(miscTotal)
	difference := decimal.NewFromFloat(advance).
		Add(decimal.NewFromFloat(collections)).
		Sub(totalCost.Add(decimal.NewFromFloat(tip)))

	return domain.FinancialSummary{
		Advance:               advance,
		CollectionsForCompany: collections,
		CompanyTip:            tip,
		TotalCost:             totalCost.InexactFloat64(),
		DifferenceToAdvance:   difference.InexactFloat64(),
	}
}

func clampAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// amount converts a line value, treating non-finite input as zero
func amount(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
