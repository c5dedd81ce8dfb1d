package reports

import (
	"context"
	"strings"

	"veriscan/internal/domain"
	"veriscan/internal/ports"
)

// Service serves the latest persisted scan result per registrable domain.
type Service struct {
	results ports.ResultRepository
}

func New(results ports.ResultRepository) *Service {
	return &Service{results: results}
}

func (s *Service) LatestByDomain(ctx context.Context, registrable string) (domain.ScanResult, error) {
	res, found, err := s.results.LatestByDomain(ctx, strings.ToLower(registrable))
	if err != nil {
		return domain.ScanResult{}, err
	}
	if !found {
		return domain.ScanResult{}, ports.ErrNotFound
	}
	return res, nil
}
