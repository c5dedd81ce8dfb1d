package scan

import "veriscan/internal/domain"

// Adjustment constants were calibrated against the simplified transport and
// disclosure heuristics; changing either side alone shifts score meaning.
const (
	adjInsecureTransport   = 15
	adjMixedContent        = 10
	adjWeakHeaders         = 10
	adjUndisclosedTrackers = 10

	weakHeaderThreshold   = 50
	trackerCountThreshold = 5
)

// Aggregate combines the evidence bundle into the final score and derived
// framework flags. Adjustments are additive and order-insensitive; the clamp
// happens exactly once at the end, so intermediate totals may transiently
// leave [0,100].
func Aggregate(ev domain.EvidenceBundle) domain.ScanResult {
	score := ev.Semantic.BaseRiskScore
	if !ev.Transport.IsSecureScheme {
		score += adjInsecureTransport
	}
	if ev.Transport.MixedContentDetected {
		score += adjMixedContent
	}
	if ev.Headers.Score < weakHeaderThreshold {
		score += adjWeakHeaders
	}
	if len(ev.Scripts.Detected) > trackerCountThreshold && !ev.Scripts.Disclosed {
		score += adjUndisclosedTrackers
	}
	score = clampScore(score)

	return domain.ScanResult{
		Success:             true,
		RiskScore:           score,
		AccessibilityIssues: ev.Semantic.HasAccessibilityIssues,
		AIRetentionIssues:   ev.Semantic.HasAIFeatures && !ev.Semantic.HasPrivacyPolicy,
		PrivacyIssues:       !ev.Semantic.HasCookieBanner || !ev.Semantic.HasPrivacyPolicy,
		ShadowAIIssues:      ev.Semantic.HasAIFeatures && !ev.Semantic.HasAIDisclosure,
		Issues:              append([]string(nil), ev.Semantic.Issues...),
		Evidence:            ev,
	}
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
