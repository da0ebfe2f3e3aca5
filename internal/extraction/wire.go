package extraction

import (
	"strings"

	"github.com/andy/tourbook/internal/domain"
)

// The wire types mirror the JSON the model is asked to produce. Every field
// is lenient; conversion to domain types happens in toDomain.

type wireGeneral struct {
	Code         text   `json:"code"`
	CustomerName text   `json:"customerName"`
	CompanyName  text   `json:"companyName"`
	Nationality  text   `json:"nationality"`
	Pax          number `json:"pax"`
	StartDate    text   `json:"startDate"`
	EndDate      text   `json:"endDate"`
	GuideName    text   `json:"guideName"`
	DriverName   text   `json:"driverName"`
	Notes        text   `json:"notes"`
}

type wireService struct {
	RawName  text   `json:"rawName"`
	Name     text   `json:"name"`
	Quantity number `json:"quantity"`
	Price    number `json:"price"`
	Notes    text   `json:"notes"`
}

type wireItineraryItem struct {
	Day        number   `json:"day"`
	Date       text     `json:"date"`
	Location   text     `json:"location"`
	Activities textList `json:"activities"`
}

type wireExpense struct {
	Description text   `json:"description"`
	Amount      number `json:"amount"`
	Date        text   `json:"date"`
	Notes       text   `json:"notes"`
}

type wireResult struct {
	General               wireGeneral         `json:"general"`
	Services              []wireService       `json:"services"`
	Itinerary             []wireItineraryItem `json:"itinerary"`
	OtherExpenses         []wireExpense       `json:"otherExpenses"`
	Advance               number              `json:"advance"`
	CollectionsForCompany number              `json:"collectionsForCompany"`
	CompanyTip            number              `json:"companyTip"`
}

func (w *wireResult) toDomain() *domain.ExtractionResult {
	res := &domain.ExtractionResult{
		General: domain.GeneralInfo{
			Code:         string(w.General.Code),
			CustomerName: string(w.General.CustomerName),
			CompanyName:  string(w.General.CompanyName),
			Nationality:  string(w.General.Nationality),
			Pax:          int(w.General.Pax),
			StartDate:    string(w.General.StartDate),
			EndDate:      string(w.General.EndDate),
			DriverName:   string(w.General.DriverName),
			Notes:        string(w.General.Notes),
		},
		Services:              make([]domain.ExtractionServiceCandidate, 0, len(w.Services)),
		Itinerary:             make([]domain.ItineraryItem, 0, len(w.Itinerary)),
		OtherExpenses:         make([]domain.Expense, 0, len(w.OtherExpenses)),
		Advance:               float64(w.Advance),
		CollectionsForCompany: float64(w.CollectionsForCompany),
		CompanyTip:            float64(w.CompanyTip),
	}
	if res.General.Pax < 0 {
		res.General.Pax = 0
	}
	if guide := strings.TrimSpace(string(w.General.GuideName)); guide != "" {
		res.General.Notes = strings.TrimSpace(res.General.Notes + "\nGuide on document: " + guide)
	}

	for _, s := range w.Services {
		name := string(s.RawName)
		if name == "" {
			name = string(s.Name)
		}
		res.Services = append(res.Services, domain.ExtractionServiceCandidate{
			RawName:  name,
			Quantity: float64(s.Quantity),
			Price:    float64(s.Price),
			Notes:    string(s.Notes),
		})
	}
	for i, it := range w.Itinerary {
		day := int(it.Day)
		if day <= 0 {
			day = i + 1
		}
		res.Itinerary = append(res.Itinerary, domain.ItineraryItem{
			Day:        day,
			Date:       string(it.Date),
			Location:   string(it.Location),
			Activities: append([]string{}, it.Activities...),
		})
	}
	for _, e := range w.OtherExpenses {
		res.OtherExpenses = append(res.OtherExpenses, domain.Expense{
			ID:          domain.NewID(),
			Description: string(e.Description),
			Amount:      float64(e.Amount),
			Date:        string(e.Date),
			Notes:       string(e.Notes),
		})
	}
	return res
}
