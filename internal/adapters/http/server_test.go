package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"veriscan/internal/domain"
	"veriscan/internal/ports"
	"veriscan/internal/scan"
)

type fakeScanner struct {
	enqueueErr error
	status     string
	progress   float64
	statusErr  error
}

func (f *fakeScanner) Enqueue(_ context.Context, rawurl string) (string, error) {
	if f.enqueueErr != nil {
		return "", f.enqueueErr
	}
	return "scan-1", nil
}

func (f *fakeScanner) Status(context.Context, string) (string, float64, error) {
	return f.status, f.progress, f.statusErr
}

type fakeReports struct {
	res domain.ScanResult
	err error
}

func (f *fakeReports) LatestByDomain(context.Context, string) (domain.ScanResult, error) {
	return f.res, f.err
}

type fakeJobs struct{}

func (fakeJobs) ClaimNext(context.Context) (ports.ScanJob, bool, error) {
	return ports.ScanJob{}, false, nil
}
func (fakeJobs) MarkRunning(context.Context, string) error                 { return nil }
func (fakeJobs) UpdateScanProgress(context.Context, string, float64) error { return nil }
func (fakeJobs) MarkCompleted(context.Context, string) error               { return nil }
func (fakeJobs) MarkFailed(context.Context, string, string) error          { return nil }
func (fakeJobs) StartJobForScan(context.Context, string) (string, error)   { return "job-1", nil }

type fakeProcessor struct {
	calls int
	err   error
}

func (f *fakeProcessor) Process(context.Context, string) error {
	f.calls++
	return f.err
}

func newTestServer(scanner *fakeScanner, reports *fakeReports, processor *fakeProcessor) http.Handler {
	return New(scanner, reports, fakeJobs{}, processor, zap.NewNop()).Routes()
}

func TestHealth(t *testing.T) {
	h := newTestServer(&fakeScanner{}, &fakeReports{}, &fakeProcessor{})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestCreateScan_Queued(t *testing.T) {
	h := newTestServer(&fakeScanner{}, &fakeReports{}, &fakeProcessor{})
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"url": "example.com"}`)

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scans", body))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["scan_id"] != "scan-1" {
		t.Errorf("unexpected body %v", resp)
	}
}

func TestCreateScan_Wait(t *testing.T) {
	scanner := &fakeScanner{status: "completed", progress: 1}
	processor := &fakeProcessor{}
	h := newTestServer(scanner, &fakeReports{}, processor)
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"url": "example.com"}`)

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scans?wait=true&timeout=5", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if processor.calls != 1 {
		t.Errorf("expected inline processing, got %d calls", processor.calls)
	}
	var resp scanStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "completed" || resp.Progress != 1 {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestCreateScan_BadBody(t *testing.T) {
	h := newTestServer(&fakeScanner{}, &fakeReports{}, &fakeProcessor{})

	for _, body := range []string{"", "not json", `{"url": ""}`} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scans", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestCreateScan_InvalidTarget(t *testing.T) {
	scanner := &fakeScanner{enqueueErr: scan.ErrInvalidTarget}
	h := newTestServer(scanner, &fakeReports{}, &fakeProcessor{})
	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"url": "ftp://example.com"}`)

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scans", body))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestScanStatus_NotFound(t *testing.T) {
	scanner := &fakeScanner{statusErr: ports.ErrNotFound}
	h := newTestServer(scanner, &fakeReports{}, &fakeProcessor{})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scans/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestLatestReport(t *testing.T) {
	reports := &fakeReports{res: domain.ScanResult{Success: true, RiskScore: 35, CureNoticeEligible: true}}
	h := newTestServer(&fakeScanner{}, reports, &fakeProcessor{})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/example.com", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var res domain.ScanResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.RiskScore != 35 || !res.CureNoticeEligible {
		t.Errorf("unexpected report %+v", res)
	}
}

func TestLatestReport_NotFound(t *testing.T) {
	reports := &fakeReports{err: ports.ErrNotFound}
	h := newTestServer(&fakeScanner{}, reports, &fakeProcessor{})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/unknown.example", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
