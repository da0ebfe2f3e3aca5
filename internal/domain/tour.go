package domain

import (
	"strings"
	"time"
)

type GeneralInfo struct {
	Code         string `json:"code" validate:"notblank"`
	CustomerName string `json:"customerName" validate:"notblank"`
	CompanyName  string `json:"companyName"`
	Nationality  string `json:"nationality"`
	Pax          int    `json:"pax" validate:"gte=0"`
	StartDate    string `json:"startDate" validate:"notblank"`
	EndDate      string `json:"endDate" validate:"notblank"`
	GuideID      string `json:"guideId" validate:"notblank"`
	DriverName   string `json:"driverName"`
	Notes        string `json:"notes"`
}

// ItineraryItem is one day of the tour
type ItineraryItem struct {
	Day        int      `json:"day"`
	Date       string   `json:"date"`
	Location   string   `json:"location"`
	Activities []string `json:"activities"`
}

// TourService is a billed service line. UnitPrice is authoritative,
// SourcePrice is the price read off the document and is kept for audit.
// Discrepancy always equals UnitPrice - SourcePrice.
type TourService struct {
	ID          string  `json:"id"`
	ServiceID   string  `json:"serviceId"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity" validate:"gte=0"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	SourcePrice float64 `json:"sourcePrice"`
	Discrepancy float64 `json:"discrepancy"`
	Notes       string  `json:"notes,omitempty"`
}

// NewTourService builds a line from a match result
func NewTourService(m MatchedService) TourService {
	serviceID := NewID()
	description := strings.TrimSpace(m.Candidate.RawName)
	if m.Service != nil {
		serviceID = m.Service.ID
		if description == "" {
			description = m.Service.Name
		}
	}
	return TourService{
		ID:          NewID(),
		ServiceID:   serviceID,
		Description: description,
		Quantity:    m.Candidate.Quantity,
		UnitPrice:   m.NormalizedPrice,
		SourcePrice: m.Candidate.Price,
		Discrepancy: m.NormalizedPrice - m.Candidate.Price,
		Notes:       m.Candidate.Notes,
	}
}

// SetUnitPrice changes the billed price and keeps the discrepancy in step
func (s *TourService) SetUnitPrice(price float64) {
	s.UnitPrice = price
	s.Discrepancy = s.UnitPrice - s.SourcePrice
}

// Amount returns quantity * unit price
func (s TourService) Amount() float64 {
	return s.UnitPrice * s.Quantity
}

// PerDiemEntry is derived from the itinerary; never edited by hand
type PerDiemEntry struct {
	ID       string  `json:"id"`
	GuideID  string  `json:"guideId"`
	Location string  `json:"location"`
	Days     int     `json:"days"`
	Rate     float64 `json:"rate"`
	Total    float64 `json:"total"`
}

type Expense struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Date        string  `json:"date"`
	Notes       string  `json:"notes,omitempty"`
}

// FinancialSummary is derived. DifferenceToAdvance > 0 means money is owed
// back to the company; < 0 means the company must top up.
type FinancialSummary struct {
	Advance               float64 `json:"advance"`
	CollectionsForCompany float64 `json:"collectionsForCompany"`
	CompanyTip            float64 `json:"companyTip"`
	TotalCost             float64 `json:"totalCost"`
	DifferenceToAdvance   float64 `json:"differenceToAdvance"`
}

// Tour is the persisted aggregate root
type Tour struct {
	ID            string           `json:"id"`
	General       GeneralInfo      `json:"general"`
	Itinerary     []ItineraryItem  `json:"itinerary"`
	Services      []TourService    `json:"services" validate:"dive"`
	PerDiem       []PerDiemEntry   `json:"perDiem"`
	OtherExpenses []Expense        `json:"otherExpenses" validate:"dive"`
	Financials    FinancialSummary `json:"financials"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// NewTour creates an empty tour with a fresh id
func NewTour(general GeneralInfo) *Tour {
	now := time.Now()
	return &Tour{
		ID:            NewID(),
		General:       general,
		Itinerary:     make([]ItineraryItem, 0),
		Services:      make([]TourService, 0),
		PerDiem:       make([]PerDiemEntry, 0),
		OtherExpenses: make([]Expense, 0),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// StoreKey returns the key the tour is stored under
func (t *Tour) StoreKey() string {
	if strings.TrimSpace(t.General.Code) == "" {
		return t.ID
	}
	return SanitizeCode(t.General.Code)
}

// Clone returns a deep copy
func (t *Tour) Clone() *Tour {
	if t == nil {
		return nil
	}
	c := *t
	c.Itinerary = make([]ItineraryItem, len(t.Itinerary))
	for i, item := range t.Itinerary {
		item.Activities = append([]string(nil), item.Activities...)
		c.Itinerary[i] = item
	}
	c.Services = append(make([]TourService, 0, len(t.Services)), t.Services...)
	c.PerDiem = append(make([]PerDiemEntry, 0, len(t.PerDiem)), t.PerDiem...)
	c.OtherExpenses = append(make([]Expense, 0, len(t.OtherExpenses)), t.OtherExpenses...)
	return &c
}

// ServiceTotal returns the sum of all service line amounts
func (t *Tour) ServiceTotal() float64 {
	var total float64
	for _, s := range t.Services {
		total += s.Amount()
	}
	return total
}

// PerDiemTotal returns the sum of all per diem entries
func (t *Tour) PerDiemTotal() float64 {
	var total float64
	for _, p := range t.PerDiem {
		total += p.Total
	}
	return total
}

// ExpenseTotal returns the sum of all other expenses
func (t *Tour) ExpenseTotal() float64 {
	var total float64
	for _, e := range t.OtherExpenses {
		total += e.Amount
	}
	return total
}
