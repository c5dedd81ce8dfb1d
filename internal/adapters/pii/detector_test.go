package pii

import (
	"context"
	"testing"
)

func TestDetector(t *testing.T) {
	d := New()
	cases := []struct {
		name     string
		text     string
		detected bool
		severity string
	}{
		{"ssn", "employee record 123-45-6789 exposed", true, "critical"},
		{"payment card", "card on file: 4111 1111 1111 1111", true, "high"},
		{"clean", "our opening hours are 9 to 5", false, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := d.Detect(context.Background(), c.text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Detected != c.detected {
				t.Errorf("expected detected=%t, got %t", c.detected, got.Detected)
			}
			if got.Severity != c.severity {
				t.Errorf("expected severity %q, got %q", c.severity, got.Severity)
			}
		})
	}
}

func TestDetector_MostSevereWins(t *testing.T) {
	d := New()
	got, err := d.Detect(context.Background(), "4111 1111 1111 1111 and 123-45-6789")
	if err != nil {
		t.Fatal(err)
	}
	if got.Severity != "critical" {
		t.Errorf("expected critical to win, got %q", got.Severity)
	}
}
