package scan

import (
	"testing"

	"veriscan/internal/domain"
)

// cleanEvidence has no curable and no non-curable indicators.
func cleanEvidence() domain.EvidenceBundle {
	return domain.EvidenceBundle{
		Semantic: domain.SemanticFindings{
			HasCookieBanner:  true,
			HasPrivacyPolicy: true,
		},
	}
}

func TestCureEligible_DecisionTable(t *testing.T) {
	cases := []struct {
		name               string
		curable, nonCurable bool
		want               bool
	}{
		{"curable only", true, false, true},
		{"neither", false, false, false},
		{"both", true, true, false},
		{"non-curable only", false, true, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ev := cleanEvidence()
			if c.curable {
				ev.Semantic.HasPrivacyPolicy = false
			}
			if c.nonCurable {
				ev.Semantic.SocialScoringDetected = true
			}
			if got := CureEligible(ev); got != c.want {
				t.Errorf("curable=%t nonCurable=%t: expected %t, got %t", c.curable, c.nonCurable, c.want, got)
			}
		})
	}
}

func TestCureEligible_CurableIndicators(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.EvidenceBundle)
	}{
		{"undisclosed ai", func(ev *domain.EvidenceBundle) {
			ev.Semantic.HasAIFeatures = true
			ev.Semantic.HasAIDisclosure = false
		}},
		{"missing privacy policy", func(ev *domain.EvidenceBundle) {
			ev.Semantic.HasPrivacyPolicy = false
		}},
		{"missing cookie banner", func(ev *domain.EvidenceBundle) {
			ev.Semantic.HasCookieBanner = false
		}},
		{"accessibility issues", func(ev *domain.EvidenceBundle) {
			ev.Semantic.HasAccessibilityIssues = true
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ev := cleanEvidence()
			c.mutate(&ev)
			if !CureEligible(ev) {
				t.Error("any single curable indicator should suffice")
			}
		})
	}
}

func TestCureEligible_DisclosedAIIsNotCurableIndicator(t *testing.T) {
	ev := cleanEvidence()
	ev.Semantic.HasAIFeatures = true
	ev.Semantic.HasAIDisclosure = true
	if CureEligible(ev) {
		t.Error("disclosed AI with full privacy posture has nothing to cure")
	}
}

func TestCureEligible_NonCurableVetoes(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.EvidenceBundle)
	}{
		{"social scoring", func(ev *domain.EvidenceBundle) {
			ev.Semantic.SocialScoringDetected = true
		}},
		{"discrimination", func(ev *domain.EvidenceBundle) {
			ev.Semantic.DiscriminationDetected = true
		}},
		{"critical pii", func(ev *domain.EvidenceBundle) {
			ev.PII = domain.PIIFinding{Detected: true, Severity: "critical"}
		}},
		{"high pii", func(ev *domain.EvidenceBundle) {
			ev.PII = domain.PIIFinding{Detected: true, Severity: "high"}
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ev := cleanEvidence()
			ev.Semantic.HasPrivacyPolicy = false // a curable indicator is present
			c.mutate(&ev)
			if CureEligible(ev) {
				t.Error("non-curable indicator must veto eligibility")
			}
		})
	}
}

func TestCureEligible_LowSeverityPIIDoesNotVeto(t *testing.T) {
	ev := cleanEvidence()
	ev.Semantic.HasPrivacyPolicy = false
	ev.PII = domain.PIIFinding{Detected: true, Severity: "medium"}
	if !CureEligible(ev) {
		t.Error("medium-severity identifier exposure must not veto")
	}
}
