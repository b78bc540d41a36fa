package version

import (
	"os"
	"testing"

	"github.com/fatih/color"
)

func TestColored(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	t.Cleanup(func() {
		Version = orig
		color.NoColor = origNoColor
	})
	color.NoColor = true

	tests := []struct {
		version string
		want    string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.0.0-rc.1+build.7", "1.0.0-rc.1+build.7"},
		{"nightly", "nightly"},
		{"  ", "dev"},
	}
	for _, tt := range tests {
		Version = tt.version
		if got := Colored(); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.version, got, tt.want)
		}
	}
}

func TestColoredHighlightsComponents(t *testing.T) {
	if os.Getenv("NO_COLOR") != "" {
		t.Skip("NO_COLOR set")
	}
	orig, origNoColor := Version, color.NoColor
	t.Cleanup(func() {
		Version = orig
		color.NoColor = origNoColor
	})
	color.NoColor = false
	Version = "1.2.3"
	if got := Colored(); got == "1.2.3" {
		t.Fatalf("expected escape sequences, got %q", got)
	}
}
