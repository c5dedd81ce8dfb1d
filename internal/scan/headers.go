package scan

import (
	"context"
	"net/http"
	"time"

	"veriscan/internal/domain"
)

const headerPoints = 25

// HeaderInspector checks a target for the four baseline security response
// headers using a header-only request.
type HeaderInspector struct {
	client *http.Client
}

func NewHeaderInspector(client *http.Client) *HeaderInspector {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HeaderInspector{client: client}
}

// Inspect returns presence booleans and the derived 0-100 score. Any network
// or transport failure degrades to the all-absent result: missing headers are
// a soft signal, never a scan failure.
func (h *HeaderInspector) Inspect(ctx context.Context, url string) domain.SecurityHeaders {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return domain.SecurityHeaders{}
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return domain.SecurityHeaders{}
	}
	defer resp.Body.Close()

	hdr := resp.Header
	out := domain.SecurityHeaders{
		CSPPresent: hdr.Get("Content-Security-Policy") != "" ||
			hdr.Get("Content-Security-Policy-Report-Only") != "",
		FrameOptionsPresent:       hdr.Get("X-Frame-Options") != "",
		HSTSPresent:               hdr.Get("Strict-Transport-Security") != "",
		ContentTypeOptionsPresent: hdr.Get("X-Content-Type-Options") != "",
	}
	for _, present := range []bool{
		out.CSPPresent,
		out.FrameOptionsPresent,
		out.HSTSPresent,
		out.ContentTypeOptionsPresent,
	} {
		if present {
			out.Score += headerPoints
		}
	}
	return out
}
