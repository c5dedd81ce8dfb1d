package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCatalog_EmptyPathReturnsDefaults(t *testing.T) {
	cat, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cat.Trackers) < 17 {
		t.Errorf("defaults must carry the full tracker catalog, got %d", len(cat.Trackers))
	}
	if !cat.IsKnownCompliant("google.com") {
		t.Error("defaults must allow-list google.com")
	}
}

func TestLoadCatalog_OverlaysSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := []byte("known_compliant:\n  - trusted.test\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cat.IsKnownCompliant("trusted.test") {
		t.Error("override must replace the allow-list")
	}
	if cat.IsKnownCompliant("google.com") {
		t.Error("overridden allow-list must not keep defaults")
	}
	if len(cat.Trackers) < 17 {
		t.Error("sections absent from the file must keep their defaults")
	}
}

func TestLoadCatalog_MissingFileIsError(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing catalog file")
	}
}

func TestIsKnownCompliant_CaseInsensitive(t *testing.T) {
	cat := DefaultCatalog()
	if !cat.IsKnownCompliant("Google.COM") {
		t.Error("allow-list match must be case-insensitive")
	}
	if cat.IsKnownCompliant("evil.example") {
		t.Error("unlisted domain must not match")
	}
}
