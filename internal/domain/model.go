package domain

import "time"

// Core domain models used internally. Persistence shapes live in the postgres
// adapter; keep these decoupled where helpful.

type Domain struct {
	ID                string
	RegistrableDomain string
	FirstSeenAt       time.Time
}

type Scan struct {
	ID         string
	DomainRef  string
	URL        string
	StartedAt  *time.Time
	FinishedAt *time.Time
	Status     string // queued|running|completed|failed
}

// Target is a normalized scan target: an absolute URL plus its registrable
// domain (eTLD+1). Immutable once created at orchestration start.
type Target struct {
	URL               string
	RegistrableDomain string
}

// PageContent is what the content fetcher hands the detectors: extracted page
// text, discovered links in document order, and the raw markup.
type PageContent struct {
	Text  string
	Links []string
	HTML  string
}

// SecurityHeaders records presence of the four baseline security response
// headers. Score is 25 points per present header, 0-100.
type SecurityHeaders struct {
	CSPPresent                bool `json:"cspPresent"`
	FrameOptionsPresent       bool `json:"frameOptionsPresent"`
	HSTSPresent               bool `json:"hstsPresent"`
	ContentTypeOptionsPresent bool `json:"contentTypeOptionsPresent"`
	Score                     int  `json:"headerScore"`
}

// ThirdPartyScripts is the deduplicated set of detected tracker services and
// whether the page text mentions tracking or third-party sharing at all. The
// disclosure flag is a generic keyword heuristic, not a per-tracker match.
type ThirdPartyScripts struct {
	Detected  []string `json:"detected"`
	Disclosed bool     `json:"disclosed"`
}

type Transport struct {
	IsSecureScheme            bool `json:"isSecureScheme"`
	InsecureRedirectsToSecure bool `json:"insecureRedirectsToSecure"`
	CertificateAssumedValid   bool `json:"certificateAssumedValid"`
	MixedContentDetected      bool `json:"mixedContentDetected"`
}

// SemanticFindings is the structured output of the semantic audit. The
// BaseRiskScore is the model's proposed starting score before adjustments.
type SemanticFindings struct {
	HasCookieBanner        bool     `json:"hasCookieBanner"`
	HasPrivacyPolicy       bool     `json:"hasPrivacyPolicy"`
	HasAIFeatures          bool     `json:"hasAiFeatures"`
	HasAIDisclosure        bool     `json:"hasAiDisclosure"`
	HasBiometricConsent    bool     `json:"hasBiometricConsent"`
	SocialScoringDetected  bool     `json:"socialScoringDetected"`
	DiscriminationDetected bool     `json:"discriminationDetected"`
	HasAccessibilityIssues bool     `json:"hasAccessibilityIssues"`
	HasTrustSignals        bool     `json:"hasTrustSignals"`
	BaseRiskScore          int      `json:"baseRiskScore"`
	Issues                 []string `json:"issues"`
}

// PIIFinding is the optional sensitive-identifier detection signal. The zero
// value means the detector was not invoked or found nothing.
type PIIFinding struct {
	Detected bool   `json:"detected"`
	Severity string `json:"severity,omitempty"` // critical|high|medium|low
}

// EvidenceBundle is every signal collected for one scan before scoring. It is
// assembled incrementally by independent detectors and read-only once scored.
type EvidenceBundle struct {
	Headers   SecurityHeaders   `json:"securityHeaders"`
	Scripts   ThirdPartyScripts `json:"thirdPartyScripts"`
	Transport Transport         `json:"transport"`
	Semantic  SemanticFindings  `json:"semanticFindings"`
	PII       PIIFinding        `json:"piiFinding"`
}

// ScanResult is the final, immutable output of one scan invocation. A failed
// scan still produces a well-formed result with Success=false so callers never
// need a separate code path.
type ScanResult struct {
	Success             bool           `json:"success"`
	RiskScore           int            `json:"riskScore"`
	AccessibilityIssues bool           `json:"accessibilityIssues"`
	AIRetentionIssues   bool           `json:"aiRetentionIssues"`
	PrivacyIssues       bool           `json:"privacyIssues"`
	ShadowAIIssues      bool           `json:"shadowAiIssues"`
	Issues              []string       `json:"issues"`
	CureNoticeEligible  bool           `json:"cureNoticeEligible"`
	Evidence            EvidenceBundle `json:"evidence"`
}
