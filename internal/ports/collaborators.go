package ports

import (
	"context"

	"veriscan/internal/domain"
)

// ContentFetcher retrieves page text, discovered links, and raw markup for a
// normalized URL. Failure here is fatal to the whole scan.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (domain.PageContent, error)
}

// TextGenerator is the external text-generation service behind the semantic
// audit. The response is free-form text expected to contain exactly one JSON
// object matching the audit contract.
type TextGenerator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// PIIDetector flags exposed sensitive identifiers in page text. The detector
// is optional; when absent the signal is treated as "not detected".
type PIIDetector interface {
	Detect(ctx context.Context, text string) (domain.PIIFinding, error)
}

// DriftNotifier is told when a domain's risk score moves between scans.
type DriftNotifier interface {
	ScoreChanged(ctx context.Context, registrable string, previous, current int) error
}
