package scan

import (
	"strings"

	"veriscan/internal/domain"
)

// CureEligible reports whether the findings qualify for a grace-period cure
// notice. At least one curable gap must be present and no non-curable
// indicator may veto it. Pure function of the evidence bundle.
func CureEligible(ev domain.EvidenceBundle) bool {
	s := ev.Semantic
	curable := (s.HasAIFeatures && !s.HasAIDisclosure) ||
		!s.HasPrivacyPolicy ||
		!s.HasCookieBanner ||
		s.HasAccessibilityIssues

	nonCurable := s.SocialScoringDetected ||
		s.DiscriminationDetected ||
		sensitiveExposure(ev.PII)

	return curable && !nonCurable
}

// sensitiveExposure treats only critical and high severity identifier leaks
// as a veto; an absent detector reads as not detected.
func sensitiveExposure(p domain.PIIFinding) bool {
	if !p.Detected {
		return false
	}
	switch strings.ToLower(p.Severity) {
	case "critical", "high":
		return true
	}
	return false
}
