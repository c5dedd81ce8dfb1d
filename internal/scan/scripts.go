package scan

import (
	"sort"
	"strings"

	"veriscan/internal/domain"
)

// ScriptDetector matches the tracker signature catalog against raw page
// markup and cross-references disclosure phrasing in page text.
type ScriptDetector struct {
	trackers        map[string]string
	disclosureTerms []string
}

func NewScriptDetector(cat Catalog) *ScriptDetector {
	return &ScriptDetector{
		trackers:        cat.Trackers,
		disclosureTerms: cat.DisclosureTerms,
	}
}

// Detect returns the sorted, deduplicated set of matched service names and
// whether the page text references tracking or third-party sharing at all.
// The disclosure check is intentionally generic rather than per-tracker; the
// aggregator consumes only the aggregate flag with a count threshold.
func (d *ScriptDetector) Detect(markup, text string) domain.ThirdPartyScripts {
	lowerMarkup := strings.ToLower(markup)
	var detected []string
	for name, sig := range d.trackers {
		if strings.Contains(lowerMarkup, sig) {
			detected = append(detected, name)
		}
	}
	sort.Strings(detected)

	lowerText := strings.ToLower(text)
	disclosed := false
	for _, term := range d.disclosureTerms {
		if strings.Contains(lowerText, term) {
			disclosed = true
			break
		}
	}
	return domain.ThirdPartyScripts{Detected: detected, Disclosed: disclosed}
}
