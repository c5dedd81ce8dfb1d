package scan

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"veriscan/internal/domain"
)

// NormalizeTarget coerces bare domains to an absolute https URL and derives
// the registrable domain. Strings that do not parse as a URL are rejected
// with ErrInvalidTarget.
func NormalizeTarget(raw string) (domain.Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Target{}, ErrInvalidTarget
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return domain.Target{}, fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return domain.Target{}, ErrInvalidTarget
	}

	// The public suffix list is lowercase.
	host := strings.ToLower(u.Hostname())
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		registrable = host
	}
	return domain.Target{
		URL:               u.String(),
		RegistrableDomain: registrable,
	}, nil
}
