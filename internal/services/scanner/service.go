package scanner

import (
	"context"

	"veriscan/internal/ports"
	"veriscan/internal/scan"
)

// Service enqueues scans. Normalization happens here so the queue only ever
// holds absolute URLs and the domain table only registrable domains.
type Service struct {
	domains ports.DomainRepository
	scans   ports.ScanRepository
}

func New(domains ports.DomainRepository, scans ports.ScanRepository) *Service {
	return &Service{domains: domains, scans: scans}
}

func (s *Service) Enqueue(ctx context.Context, rawurl string) (string, error) {
	target, err := scan.NormalizeTarget(rawurl)
	if err != nil {
		return "", err
	}
	domainID, err := s.domains.GetOrCreate(ctx, target.RegistrableDomain)
	if err != nil {
		return "", err
	}
	scanID, err := s.scans.Create(ctx, domainID, target.URL)
	if err != nil {
		return "", err
	}
	return scanID, nil
}

func (s *Service) Status(ctx context.Context, scanID string) (string, float64, error) {
	return s.scans.Status(ctx, scanID)
}
