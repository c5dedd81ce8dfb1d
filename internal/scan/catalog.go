package scan

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is the injectable data the scan pipeline runs against: tracker
// signatures, disclosure phrasing, and the known-compliant allow-list. These
// are loaded tables, not control flow, so they can grow without code changes.
type Catalog struct {
	// Trackers maps a service name to a lowercase substring signature
	// matched against raw page markup.
	Trackers map[string]string `yaml:"trackers"`
	// DisclosureTerms are generic tracking/third-party-sharing phrases
	// searched for in page text. Deliberately coarse; scoring consumes only
	// the aggregate flag.
	DisclosureTerms []string `yaml:"disclosure_terms"`
	// KnownCompliant lists registrable domains that short-circuit the scan
	// with a fixed low-risk baseline. A cost optimization, not an audit.
	KnownCompliant []string `yaml:"known_compliant"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		Trackers: map[string]string{
			"google-analytics":   "google-analytics.com",
			"google-tag-manager": "googletagmanager.com",
			"facebook-pixel":     "connect.facebook.net",
			"hotjar":             "hotjar.com",
			"mixpanel":           "mixpanel.com",
			"segment":            "segment.com",
			"amplitude":          "amplitude.com",
			"intercom":           "intercom.io",
			"drift":              "driftt.com",
			"zendesk":            "zdassets.com",
			"hubspot":            "hs-scripts.com",
			"crisp":              "crisp.chat",
			"tawk-to":            "tawk.to",
			"linkedin-insight":   "snap.licdn.com",
			"tiktok-pixel":       "analytics.tiktok.com",
			"microsoft-clarity":  "clarity.ms",
			"fullstory":          "fullstory.com",
			"heap":               "heapanalytics.com",
			"matomo":             "matomo.js",
			"quantcast":          "quantserve.com",
			"criteo":             "static.criteo.net",
		},
		DisclosureTerms: []string{
			"third party",
			"third-party",
			"tracking",
			"analytics",
			"data sharing",
			"share your data",
			"advertising partners",
			"cookie",
		},
		KnownCompliant: []string{
			"google.com",
			"youtube.com",
			"facebook.com",
			"instagram.com",
			"wikipedia.org",
			"amazon.com",
			"apple.com",
			"microsoft.com",
			"github.com",
			"linkedin.com",
			"netflix.com",
		},
	}
}

// LoadCatalog overlays a yaml file onto the defaults. Sections omitted from
// the file keep their built-in values. An empty path returns the defaults.
func LoadCatalog(path string) (Catalog, error) {
	cat := DefaultCatalog()
	if path == "" {
		return cat, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cat, fmt.Errorf("read catalog: %w", err)
	}
	var override Catalog
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return cat, fmt.Errorf("parse catalog: %w", err)
	}
	if len(override.Trackers) > 0 {
		cat.Trackers = override.Trackers
	}
	if len(override.DisclosureTerms) > 0 {
		cat.DisclosureTerms = override.DisclosureTerms
	}
	if len(override.KnownCompliant) > 0 {
		cat.KnownCompliant = override.KnownCompliant
	}
	return cat, nil
}

func (c Catalog) IsKnownCompliant(registrable string) bool {
	for _, d := range c.KnownCompliant {
		if strings.EqualFold(d, registrable) {
			return true
		}
	}
	return false
}
