package export

import (
	"fmt"

	"github.com/andy/tourbook/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	SheetTours    = "Tours"
	SheetServices = "Services"
	SheetPerDiem  = "PerDiem"
	SheetExpenses = "Expenses"
)

type sheet struct {
	name    string
	headers []string
	rows    [][]interface{}
}

// WriteTours writes the tours to an .xlsx workbook at path
func WriteTours(path string, tours []*domain.Tour, md *domain.MasterData) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := buildSheets(tours, md)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return err
		}

		if err := f.SetSheetRow(s.name, "A1", &s.headers); err != nil {
			return err
		}
		if err := f.SetRowStyle(s.name, 1, 1, headerStyle); err != nil {
			return err
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return err
			}
		}

		last, err := excelize.ColumnNumberToName(len(s.headers))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.name, "A", last, 16); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func buildSheets(tours []*domain.Tour, md *domain.MasterData) []sheet {
	summary := sheet{
		name: SheetTours,
		headers: []string{
			"Code", "Customer", "Company", "Nationality", "Pax", "Start", "End",
			"Guide", "Driver", "Services", "Per Diem", "Expenses", "Total Cost",
			"Advance", "Collections", "Company Tip", "Difference",
		},
	}
	services := sheet{
		name: SheetServices,
		headers: []string{
			"Tour", "Description", "Quantity", "Unit Price", "Source Price",
			"Discrepancy", "Amount", "Notes",
		},
	}
	perDiem := sheet{
		name:    SheetPerDiem,
		headers: []string{"Tour", "Guide", "Location", "Days", "Rate", "Total"},
	}
	expenses := sheet{
		name:    SheetExpenses,
		headers: []string{"Tour", "Date", "Description", "Amount", "Notes"},
	}

	for _, t := range tours {
		g := t.General
		guide := md.GuideName(g.GuideID)
		summary.rows = append(summary.rows, []interface{}{
			g.Code, g.CustomerName, g.CompanyName, g.Nationality, g.Pax,
			g.StartDate, g.EndDate, guide, g.DriverName,
			t.ServiceTotal(), t.PerDiemTotal(), t.ExpenseTotal(),
			t.Financials.TotalCost, t.Financials.Advance,
			t.Financials.CollectionsForCompany, t.Financials.CompanyTip,
			t.Financials.DifferenceToAdvance,
		})

		for _, s := range t.Services {
			services.rows = append(services.rows, []interface{}{
				g.Code, s.Description, s.Quantity, s.UnitPrice, s.SourcePrice,
				s.Discrepancy, s.Amount(), s.Notes,
			})
		}
		for _, p := range t.PerDiem {
			perDiem.rows = append(perDiem.rows, []interface{}{
				g.Code, md.GuideName(p.GuideID), p.Location, p.Days, p.Rate, p.Total,
			})
		}
		for _, e := range t.OtherExpenses {
			expenses.rows = append(expenses.rows, []interface{}{
				g.Code, e.Date, e.Description, e.Amount, e.Notes,
			})
		}
	}

	return []sheet{summary, services, perDiem, expenses}
}
