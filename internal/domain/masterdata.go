package domain

import (
	"errors"
	"strings"
)

// Service is a priced catalog entry
type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Unit        string  `json:"unit"`
	PartnerID   string  `json:"partnerId,omitempty"`
	Description string  `json:"description,omitempty"`
}

type Guide struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Languages string `json:"languages,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type Partner struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Contact  string `json:"contact,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// PerDiemRate is the daily guide allowance for one location
type PerDiemRate struct {
	ID       string  `json:"id"`
	Location string  `json:"location"`
	Rate     float64 `json:"rate"`
	Currency string  `json:"currency"`
}

// Catalog item kinds
const (
	CatalogNationality = "nationality"
	CatalogServiceType = "service_type"
)

// Catalogs holds the shared pick-lists
type Catalogs struct {
	Nationalities []string `json:"nationalities"`
	ServiceTypes  []string `json:"serviceTypes"`
}

// MasterData is a read snapshot of the organization-wide catalog.
// Services keep catalog order; the matcher returns the first hit in it.
type MasterData struct {
	Services     []Service     `json:"services"`
	Guides       []Guide       `json:"guides"`
	Partners     []Partner     `json:"partners"`
	PerDiemRates []PerDiemRate `json:"perDiemRates"`
	Catalogs     Catalogs      `json:"catalogs"`
}

// GuideByID returns the guide with the given id, or nil
func (m *MasterData) GuideByID(id string) *Guide {
	if m == nil {
		return nil
	}
	for i := range m.Guides {
		if m.Guides[i].ID == id {
			return &m.Guides[i]
		}
	}
	return nil
}

// GuideName returns the guide's display name, falling back to the id
func (m *MasterData) GuideName(id string) string {
	if g := m.GuideByID(id); g != nil {
		return g.Name
	}
	return id
}

// Validate returns an error if the service is invalid
func (s *Service) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("service name is required")
	}
	if s.Price < 0 {
		return errors.New("service price cannot be negative")
	}
	return nil
}

// Validate returns an error if the guide is invalid
func (g *Guide) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return errors.New("guide name is required")
	}
	return nil
}

// Validate returns an error if the partner is invalid
func (p *Partner) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("partner name is required")
	}
	return nil
}

// Validate returns an error if the rate is invalid
func (r *PerDiemRate) Validate() error {
	if strings.TrimSpace(r.Location) == "" {
		return errors.New("per diem location is required")
	}
	if r.Rate < 0 {
		return errors.New("per diem rate cannot be negative")
	}
	return nil
}
