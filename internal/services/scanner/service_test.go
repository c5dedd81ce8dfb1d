package scanner

import (
	"context"
	"errors"
	"testing"

	"veriscan/internal/domain"
	"veriscan/internal/scan"
)

type fakeDomains struct {
	lastRegistrable string
	err             error
}

func (f *fakeDomains) GetOrCreate(_ context.Context, registrable string) (string, error) {
	f.lastRegistrable = registrable
	return "domain-1", f.err
}

type fakeScans struct {
	lastDomainID string
	lastURL      string
	err          error
}

func (f *fakeScans) Create(_ context.Context, domainID, url string) (string, error) {
	f.lastDomainID = domainID
	f.lastURL = url
	return "scan-1", f.err
}

func (f *fakeScans) Get(context.Context, string) (domain.Scan, error) {
	return domain.Scan{}, nil
}

func (f *fakeScans) Status(context.Context, string) (string, float64, error) {
	return "queued", 0, nil
}

func TestEnqueue_NormalizesBeforeStoring(t *testing.T) {
	domains := &fakeDomains{}
	scans := &fakeScans{}
	svc := New(domains, scans)

	scanID, err := svc.Enqueue(context.Background(), "sub.example.co.uk/page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scanID != "scan-1" {
		t.Errorf("unexpected scan id %q", scanID)
	}
	if domains.lastRegistrable != "example.co.uk" {
		t.Errorf("expected registrable domain example.co.uk, got %q", domains.lastRegistrable)
	}
	if scans.lastDomainID != "domain-1" {
		t.Errorf("expected domain-1, got %q", scans.lastDomainID)
	}
	if scans.lastURL != "https://sub.example.co.uk/page" {
		t.Errorf("queued URL must be absolute, got %q", scans.lastURL)
	}
}

func TestEnqueue_RejectsInvalidTarget(t *testing.T) {
	svc := New(&fakeDomains{}, &fakeScans{})

	_, err := svc.Enqueue(context.Background(), "ftp://example.com")
	if !errors.Is(err, scan.ErrInvalidTarget) {
		t.Errorf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestEnqueue_PropagatesRepositoryErrors(t *testing.T) {
	boom := errors.New("db down")

	if _, err := New(&fakeDomains{err: boom}, &fakeScans{}).Enqueue(context.Background(), "example.com"); !errors.Is(err, boom) {
		t.Errorf("domain repo error not propagated: %v", err)
	}
	if _, err := New(&fakeDomains{}, &fakeScans{err: boom}).Enqueue(context.Background(), "example.com"); !errors.Is(err, boom) {
		t.Errorf("scan repo error not propagated: %v", err)
	}
}
