package repository

import (
	"context"

	"github.com/andy/tourbook/internal/domain"
)

// TourRepository persists whole tour documents keyed by Tour.StoreKey.
// Subscribers receive a full snapshot after every committed write.
type TourRepository interface {
	Save(ctx context.Context, tour *domain.Tour) error
	Delete(ctx context.Context, key string) error
	GetByCode(ctx context.Context, code string) (*domain.Tour, error)
	FetchAll(ctx context.Context) ([]*domain.Tour, error)
	Subscribe(fn func([]*domain.Tour)) (unsubscribe func())
}

// MasterDataRepository manages the catalog of services, guides, partners,
// per diem rates and pick-lists
type MasterDataRepository interface {
	Load(ctx context.Context) (*domain.MasterData, error)
	CreateService(ctx context.Context, service *domain.Service) error
	UpdateServicePrice(ctx context.Context, id string, price float64) error
	DeleteService(ctx context.Context, id string) error
	CreateGuide(ctx context.Context, guide *domain.Guide) error
	CreatePartner(ctx context.Context, partner *domain.Partner) error
	CreatePerDiemRate(ctx context.Context, rate *domain.PerDiemRate) error
	UpdatePerDiemRate(ctx context.Context, id string, rate float64) error
	AddCatalogItem(ctx context.Context, kind, value string) error
}
