package ports

import (
	"context"

	"veriscan/internal/domain"
)

// Scanner enqueues and tracks scans.
type Scanner interface {
	Enqueue(ctx context.Context, url string) (scanID string, err error)
	Status(ctx context.Context, scanID string) (status string, progress float64, err error)
}

// Reports serves the latest persisted scan result per registrable domain.
type Reports interface {
	LatestByDomain(ctx context.Context, registrable string) (domain.ScanResult, error)
}
