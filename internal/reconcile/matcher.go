package reconcile

import (
	"strings"

	"github.com/andy/tourbook/internal/domain"
)

// FindService returns the first catalog service whose normalized name
// contains the normalized candidate name, or nil. Blank names never match.
func FindService(rawName string, catalog []domain.Service) *domain.Service {
	needle := domain.NormalizeText(rawName)
	if needle == "" {
		return nil
	}
	for i := range catalog {
		if strings.Contains(domain.NormalizeText(catalog[i].Name), needle) {
			return &catalog[i]
		}
	}
	return nil
}

// MatchService prices one candidate against the catalog. Without a match
// the document price is kept and the discrepancy is zero.
func MatchService(c domain.ExtractionServiceCandidate, catalog []domain.Service) domain.MatchedService {
	svc := FindService(c.RawName, catalog)
	if svc == nil {
		return domain.MatchedService{
			Candidate:       c,
			NormalizedPrice: c.Price,
		}
	}
	matched := *svc
	return domain.MatchedService{
		Candidate:       c,
		Service:         &matched,
		NormalizedPrice: matched.Price,
		Discrepancy:     matched.Price - c.Price,
	}
}

// MatchServices matches every candidate, preserving order
func MatchServices(candidates []domain.ExtractionServiceCandidate, catalog []domain.Service) []domain.MatchedService {
	out := make([]domain.MatchedService, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, MatchService(c, catalog))
	}
	return out
}

// BuildServices converts match results into tour service lines
func BuildServices(matches []domain.MatchedService) []domain.TourService {
	out := make([]domain.TourService, 0, len(matches))
	for _, m := range matches {
		out = append(out, domain.NewTourService(m))
	}
	return out
}
