package scan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"veriscan/internal/domain"
	"veriscan/internal/ports"
)

const (
	maxPromptText  = 6000
	maxPromptLinks = 20
)

const systemPrompt = `You are a regulatory compliance auditor for websites. Assess the evidence collected from a single page against these frameworks:
- AI disclosure: any AI feature (chatbot, recommender, automated decision-making) must be disclosed to visitors before they interact with it. Apply enhanced scrutiny to regulated sectors such as health, finance, legal, housing, and employment.
- Prohibited practices: behavioral or social scoring of individuals and discriminatory profiling carry no cure period.
- Fairness: where automated decisions are advertised, look for bias-mitigation statements.
- Privacy: cookie consent must be requested and a privacy policy must be discoverable.
- Accessibility: screen-reader support, keyboard navigation, and sufficient color contrast are expected.
- Trust signals such as contact details, imprint, security attestations, and dispute-resolution information reduce risk.

Respond with ONLY a single JSON object, no prose and no code fences, with exactly these fields:
{"has_cookie_banner": boolean, "has_privacy_policy": boolean, "has_ai_features": boolean, "has_ai_disclosure": boolean, "has_biometric_consent": boolean, "social_scoring_detected": boolean, "discrimination_detected": boolean, "has_accessibility_issues": boolean, "has_trust_signals": boolean, "base_risk_score": number between 0 and 100, "issues": [strings describing each issue found]}`

// SemanticAuditor translates collected evidence into one structured request to
// the text-generation collaborator and parses a strictly-typed JSON object out
// of its free-text response.
type SemanticAuditor struct {
	gen ports.TextGenerator
}

func NewSemanticAuditor(gen ports.TextGenerator) *SemanticAuditor {
	return &SemanticAuditor{gen: gen}
}

// Audit invokes the generator and validates its response. Any failure here is
// fatal to the scan: parsing problems surface as *ParseError, service
// problems as *GeneratorError.
func (a *SemanticAuditor) Audit(ctx context.Context, target domain.Target, page domain.PageContent, ev domain.EvidenceBundle) (domain.SemanticFindings, error) {
	raw, err := a.gen.Generate(ctx, systemPrompt, buildUserPrompt(target, page, ev))
	if err != nil {
		var genErr *GeneratorError
		if errors.As(err, &genErr) {
			return domain.SemanticFindings{}, err
		}
		return domain.SemanticFindings{}, &GeneratorError{Class: FailureUnclassified, Err: err}
	}
	return parseFindings(raw)
}

func buildUserPrompt(target domain.Target, page domain.PageContent, ev domain.EvidenceBundle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target URL: %s\n\n", target.URL)

	text := page.Text
	if len(text) > maxPromptText {
		text = text[:maxPromptText]
	}
	fmt.Fprintf(&b, "Page text (may be truncated):\n%s\n\n", text)

	// Footer and navigation links sit at the end of the document, so the
	// tail of the list is the interesting part.
	links := page.Links
	if len(links) > maxPromptLinks {
		links = links[len(links)-maxPromptLinks:]
	}
	if len(links) > 0 {
		b.WriteString("Discovered links:\n")
		for _, l := range links {
			fmt.Fprintf(&b, "- %s\n", l)
		}
		b.WriteByte('\n')
	}

	if len(ev.Scripts.Detected) > 0 {
		fmt.Fprintf(&b, "Detected third-party scripts: %s\n", strings.Join(ev.Scripts.Detected, ", "))
	}
	fmt.Fprintf(&b, "Security headers: csp=%t frame_options=%t hsts=%t content_type_options=%t (score %d/100)\n",
		ev.Headers.CSPPresent, ev.Headers.FrameOptionsPresent, ev.Headers.HSTSPresent,
		ev.Headers.ContentTypeOptionsPresent, ev.Headers.Score)
	fmt.Fprintf(&b, "Transport: https=%t insecure_redirects_to_https=%t mixed_content=%t\n",
		ev.Transport.IsSecureScheme, ev.Transport.InsecureRedirectsToSecure,
		ev.Transport.MixedContentDetected)
	return b.String()
}

// auditResponse uses pointer fields so a missing field is distinguishable
// from an explicit false/zero. Every field is required.
type auditResponse struct {
	HasCookieBanner        *bool     `json:"has_cookie_banner"`
	HasPrivacyPolicy       *bool     `json:"has_privacy_policy"`
	HasAIFeatures          *bool     `json:"has_ai_features"`
	HasAIDisclosure        *bool     `json:"has_ai_disclosure"`
	HasBiometricConsent    *bool     `json:"has_biometric_consent"`
	SocialScoringDetected  *bool     `json:"social_scoring_detected"`
	DiscriminationDetected *bool     `json:"discrimination_detected"`
	HasAccessibilityIssues *bool     `json:"has_accessibility_issues"`
	HasTrustSignals        *bool     `json:"has_trust_signals"`
	BaseRiskScore          *float64  `json:"base_risk_score"`
	Issues                 *[]string `json:"issues"`
}

func (r *auditResponse) missingFields() []string {
	var missing []string
	add := func(name string, absent bool) {
		if absent {
			missing = append(missing, name)
		}
	}
	add("has_cookie_banner", r.HasCookieBanner == nil)
	add("has_privacy_policy", r.HasPrivacyPolicy == nil)
	add("has_ai_features", r.HasAIFeatures == nil)
	add("has_ai_disclosure", r.HasAIDisclosure == nil)
	add("has_biometric_consent", r.HasBiometricConsent == nil)
	add("social_scoring_detected", r.SocialScoringDetected == nil)
	add("discrimination_detected", r.DiscriminationDetected == nil)
	add("has_accessibility_issues", r.HasAccessibilityIssues == nil)
	add("has_trust_signals", r.HasTrustSignals == nil)
	add("base_risk_score", r.BaseRiskScore == nil)
	add("issues", r.Issues == nil)
	return missing
}

// parseFindings extracts the single JSON object from the response and
// validates that every required field is present and well typed. Deviations
// are a typed parse failure, never a best-effort coercion.
func parseFindings(raw string) (domain.SemanticFindings, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return domain.SemanticFindings{}, &ParseError{Reason: "response contains no JSON object"}
	}

	var resp auditResponse
	if err := json.Unmarshal([]byte(raw[start:end+1]), &resp); err != nil {
		return domain.SemanticFindings{}, &ParseError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	if missing := resp.missingFields(); len(missing) > 0 {
		return domain.SemanticFindings{}, &ParseError{Reason: "missing required fields: " + strings.Join(missing, ", ")}
	}

	return domain.SemanticFindings{
		HasCookieBanner:        *resp.HasCookieBanner,
		HasPrivacyPolicy:       *resp.HasPrivacyPolicy,
		HasAIFeatures:          *resp.HasAIFeatures,
		HasAIDisclosure:        *resp.HasAIDisclosure,
		HasBiometricConsent:    *resp.HasBiometricConsent,
		SocialScoringDetected:  *resp.SocialScoringDetected,
		DiscriminationDetected: *resp.DiscriminationDetected,
		HasAccessibilityIssues: *resp.HasAccessibilityIssues,
		HasTrustSignals:        *resp.HasTrustSignals,
		BaseRiskScore:          int(math.Round(*resp.BaseRiskScore)),
		Issues:                 *resp.Issues,
	}, nil
}
