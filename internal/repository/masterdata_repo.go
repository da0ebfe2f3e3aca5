package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/andy/tourbook/internal/db"
	"github.com/andy/tourbook/internal/domain"
)

// MasterDataRepo is a SQLite implementation of MasterDataRepository
type MasterDataRepo struct {
	db *db.DB
}

// NewMasterDataRepo creates a new MasterDataRepo
func NewMasterDataRepo(database *db.DB) *MasterDataRepo {
	return &MasterDataRepo{db: database}
}

// Load reads the whole catalog. Services come back in insertion order.
func (r *MasterDataRepo) Load(ctx context.Context) (*domain.MasterData, error) {
	md := &domain.MasterData{}
	var err error

	if md.Services, err = r.listServices(ctx); err != nil {
		return nil, err
	}
	if md.Guides, err = r.listGuides(ctx); err != nil {
		return nil, err
	}
	if md.Partners, err = r.listPartners(ctx); err != nil {
		return nil, err
	}
	if md.PerDiemRates, err = r.listRates(ctx); err != nil {
		return nil, err
	}
	if md.Catalogs.Nationalities, err = r.listCatalog(ctx, domain.CatalogNationality); err != nil {
		return nil, err
	}
	if md.Catalogs.ServiceTypes, err = r.listCatalog(ctx, domain.CatalogServiceType); err != nil {
		return nil, err
	}

	return md, nil
}

// CreateService inserts a catalog service, assigning an id if missing
func (r *MasterDataRepo) CreateService(ctx context.Context, s *domain.Service) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid service: %w", err)
	}
	if s.ID == "" {
		s.ID = domain.NewID()
	}

	query := `
		INSERT INTO services (id, name, category, price, unit, partner_id, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		strings.TrimSpace(s.Name),
		s.Category,
		s.Price,
		s.Unit,
		s.PartnerID,
		s.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

// UpdateServicePrice changes a catalog price. Tours already saved keep
// the price they captured.
func (r *MasterDataRepo) UpdateServicePrice(ctx context.Context, id string, price float64) error {
	if price < 0 {
		return fmt.Errorf("invalid service: price cannot be negative")
	}
	result, err := r.db.ExecContext(ctx, "UPDATE services SET price = ? WHERE id = ?", price, id)
	if err != nil {
		return fmt.Errorf("failed to update service price: %w", err)
	}
	return expectOneRow(result, "service", id)
}

// DeleteService removes a catalog service
func (r *MasterDataRepo) DeleteService(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM services WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return expectOneRow(result, "service", id)
}

// CreateGuide inserts a guide, assigning an id if missing
func (r *MasterDataRepo) CreateGuide(ctx context.Context, g *domain.Guide) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("invalid guide: %w", err)
	}
	if g.ID == "" {
		g.ID = domain.NewID()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO guides (id, name, phone, languages, notes) VALUES (?, ?, ?, ?, ?)",
		g.ID, strings.TrimSpace(g.Name), g.Phone, g.Languages, g.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create guide: %w", err)
	}
	return nil
}

// CreatePartner inserts a partner, assigning an id if missing
func (r *MasterDataRepo) CreatePartner(ctx context.Context, p *domain.Partner) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid partner: %w", err)
	}
	if p.ID == "" {
		p.ID = domain.NewID()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO partners (id, name, category, contact, notes) VALUES (?, ?, ?, ?, ?)",
		p.ID, strings.TrimSpace(p.Name), p.Category, p.Contact, p.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create partner: %w", err)
	}
	return nil
}

// CreatePerDiemRate inserts a per diem rate, assigning an id if missing
func (r *MasterDataRepo) CreatePerDiemRate(ctx context.Context, rate *domain.PerDiemRate) error {
	if err := rate.Validate(); err != nil {
		return fmt.Errorf("invalid per diem rate: %w", err)
	}
	if rate.ID == "" {
		rate.ID = domain.NewID()
	}
	if rate.Currency == "" {
		rate.Currency = "VND"
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO per_diem_rates (id, location, rate, currency) VALUES (?, ?, ?, ?)",
		rate.ID, strings.TrimSpace(rate.Location), rate.Rate, rate.Currency,
	)
	if err != nil {
		return fmt.Errorf("failed to create per diem rate: %w", err)
	}
	return nil
}

// UpdatePerDiemRate changes the amount of an existing rate
func (r *MasterDataRepo) UpdatePerDiemRate(ctx context.Context, id string, rate float64) error {
	if rate < 0 {
		return fmt.Errorf("invalid per diem rate: rate cannot be negative")
	}
	result, err := r.db.ExecContext(ctx, "UPDATE per_diem_rates SET rate = ? WHERE id = ?", rate, id)
	if err != nil {
		return fmt.Errorf("failed to update per diem rate: %w", err)
	}
	return expectOneRow(result, "per diem rate", id)
}

// AddCatalogItem adds a pick-list value; duplicates are ignored
func (r *MasterDataRepo) AddCatalogItem(ctx context.Context, kind, value string) error {
	switch kind {
	case domain.CatalogNationality, domain.CatalogServiceType:
	default:
		return fmt.Errorf("unknown catalog kind %q", kind)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("catalog value is required")
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO catalog_items (kind, value) VALUES (?, ?)",
		kind, value,
	)
	if err != nil {
		return fmt.Errorf("failed to add catalog item: %w", err)
	}
	return nil
}

func (r *MasterDataRepo) listServices(ctx context.Context) ([]domain.Service, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, category, price, unit, partner_id, description
		FROM services
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	services := make([]domain.Service, 0)
	for rows.Next() {
		var s domain.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Unit, &s.PartnerID, &s.Description); err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating services: %w", err)
	}
	return services, nil
}

func (r *MasterDataRepo) listGuides(ctx context.Context) ([]domain.Guide, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, phone, languages, notes FROM guides ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to list guides: %w", err)
	}
	defer rows.Close()

	guides := make([]domain.Guide, 0)
	for rows.Next() {
		var g domain.Guide
		if err := rows.Scan(&g.ID, &g.Name, &g.Phone, &g.Languages, &g.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan guide: %w", err)
		}
		guides = append(guides, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guides: %w", err)
	}
	return guides, nil
}

func (r *MasterDataRepo) listPartners(ctx context.Context) ([]domain.Partner, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, category, contact, notes FROM partners ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer rows.Close()

	partners := make([]domain.Partner, 0)
	for rows.Next() {
		var p domain.Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Contact, &p.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan partner: %w", err)
		}
		partners = append(partners, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating partners: %w", err)
	}
	return partners, nil
}

func (r *MasterDataRepo) listRates(ctx context.Context) ([]domain.PerDiemRate, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, location, rate, currency FROM per_diem_rates ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to list per diem rates: %w", err)
	}
	defer rows.Close()

	rates := make([]domain.PerDiemRate, 0)
	for rows.Next() {
		var pr domain.PerDiemRate
		if err := rows.Scan(&pr.ID, &pr.Location, &pr.Rate, &pr.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan per diem rate: %w", err)
		}
		rates = append(rates, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating per diem rates: %w", err)
	}
	return rates, nil
}

func (r *MasterDataRepo) listCatalog(ctx context.Context, kind string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT value FROM catalog_items WHERE kind = ? ORDER BY seq", kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s items: %w", kind, err)
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan %s item: %w", kind, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s items: %w", kind, err)
	}
	return values, nil
}

func expectOneRow(result sql.Result, what, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return nil
}
