package ports

import (
	"context"
	"errors"

	"veriscan/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// DomainRepository stores and fetches domains by registrable domain (eTLD+1).
type DomainRepository interface {
	GetOrCreate(ctx context.Context, registrable string) (domainID string, err error)
}

// ScanRepository manages scan records and job tracking.
type ScanRepository interface {
	Create(ctx context.Context, domainID string, url string) (scanID string, err error)
	Get(ctx context.Context, scanID string) (domain.Scan, error)
	Status(ctx context.Context, scanID string) (status string, progress float64, err error)
}

// ResultRepository persists aggregated scan results and serves score history.
type ResultRepository interface {
	Save(ctx context.Context, scanID string, res domain.ScanResult) error
	LatestByDomain(ctx context.Context, registrable string) (domain.ScanResult, bool, error)
	// PreviousScore returns the most recent risk score recorded for the
	// scanned domain before the given scan, for drift detection.
	PreviousScore(ctx context.Context, scanID string) (score int, found bool, err error)
}
