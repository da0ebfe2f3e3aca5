package cli

import (
	"fmt"
	"strings"

	"github.com/andy/tourbook/internal/domain"
	"github.com/spf13/pflag"
)

func setString(flags *pflag.FlagSet, name string, dst *string) {
	if flags.Changed(name) {
		*dst, _ = flags.GetString(name)
	}
}

func setFloat(flags *pflag.FlagSet, name string, dst *float64) {
	if flags.Changed(name) {
		*dst, _ = flags.GetFloat64(name)
	}
}

func printTour(t *domain.Tour, md *domain.MasterData) {
	g := t.General
	fmt.Printf("Tour %s\n", g.Code)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("  Customer:    %s\n", g.CustomerName)
	if g.CompanyName != "" {
		fmt.Printf("  Company:     %s\n", g.CompanyName)
	}
	fmt.Printf("  Nationality: %s\n", g.Nationality)
	fmt.Printf("  Pax:         %d\n", g.Pax)
	fmt.Printf("  Dates:       %s → %s\n", g.StartDate, g.EndDate)
	fmt.Printf("  Guide:       %s\n", md.GuideName(g.GuideID))
	if g.DriverName != "" {
		fmt.Printf("  Driver:      %s\n", g.DriverName)
	}
	if g.Notes != "" {
		fmt.Printf("  Notes:       %s\n", g.Notes)
	}

	fmt.Println("\nItinerary")
	for _, item := range t.Itinerary {
		fmt.Printf("  Day %-3d %-11s %s\n", item.Day, item.Date, item.Location)
	}

	fmt.Println("\nServices")
	fmt.Printf("  %-3s %-30s %6s %13s %13s %13s\n", "#", "Description", "Qty", "Unit Price", "Doc Price", "Discrepancy")
	for i, s := range t.Services {
		fmt.Printf("  %-3d %-30s %6g %13s %13s %13s\n",
			i+1, truncate(s.Description, 30), s.Quantity,
			money(s.UnitPrice), money(s.SourcePrice), money(s.Discrepancy))
	}

	fmt.Println("\nPer diem")
	for _, p := range t.PerDiem {
		fmt.Printf("  %-24s %3d day(s) × %11s = %13s\n", truncate(p.Location, 24), p.Days, money(p.Rate), money(p.Total))
	}

	if len(t.OtherExpenses) > 0 {
		fmt.Println("\nOther expenses")
		for _, e := range t.OtherExpenses {
			fmt.Printf("  %-40s %13s\n", truncate(e.Description, 40), money(e.Amount))
		}
	}

	f := t.Financials
	fmt.Println("\nFinancials")
	fmt.Printf("  Total cost:         %15s\n", money(f.TotalCost))
	fmt.Printf("  Advance:            %15s\n", money(f.Advance))
	fmt.Printf("  Collections:        %15s\n", money(f.CollectionsForCompany))
	fmt.Printf("  Company tip:        %15s\n", money(f.CompanyTip))
	fmt.Printf("  Difference:         %15s\n", money(f.DifferenceToAdvance))
}

func printMatches(matches []domain.MatchedService) {
	fmt.Printf("%-32s %6s %13s %13s %13s  %s\n", "Document line", "Qty", "Doc Price", "Catalog", "Discrepancy", "Match")
	for _, m := range matches {
		match := "-"
		if m.Matched() {
			match = m.Service.Name
		}
		fmt.Printf("%-32s %6g %13s %13s %13s  %s\n",
			truncate(m.Candidate.RawName, 32), m.Candidate.Quantity,
			money(m.Candidate.Price), money(m.NormalizedPrice), money(m.Discrepancy), match)
	}
}
