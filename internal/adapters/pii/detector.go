package pii

import (
	"context"
	"regexp"

	"veriscan/internal/domain"
)

// Detector is a lightweight sensitive-identifier scan over page text. It is a
// coarse stand-in for a dedicated detection service behind the same port;
// only the detection flag and severity tier feed into scoring.
type Detector struct{}

func New() *Detector { return &Detector{} }

type pattern struct {
	name     string
	severity string
	re       *regexp.Regexp
}

// Ordered most severe first; the first match wins.
var patterns = []pattern{
	{"ssn", "critical", regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{"payment-card", "high", regexp.MustCompile(`\b\d{4}[ -]\d{4}[ -]\d{4}[ -]\d{4}\b`)},
	{"iban", "high", regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`)},
}

func (d *Detector) Detect(_ context.Context, text string) (domain.PIIFinding, error) {
	for _, p := range patterns {
		if p.re.MatchString(text) {
			return domain.PIIFinding{Detected: true, Severity: p.severity}, nil
		}
	}
	return domain.PIIFinding{}, nil
}
