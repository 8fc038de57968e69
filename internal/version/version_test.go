package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestColoredWithoutColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	if got := Colored(); got != Version {
		t.Fatalf("Colored() = %q, want %q", got, Version)
	}
}

func TestColoredFallsBackOnOddVersions(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "nightly"
	if got := Colored(); got != "nightly" {
		t.Fatalf("Colored() = %q", got)
	}
}

func TestLong(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	origCommit, origDate := GitCommit, BuildDate
	defer func() {
		color.NoColor = prev
		GitCommit, BuildDate = origCommit, origDate
	}()

	GitCommit = "abc123"
	BuildDate = "2024-01-15T10:30:00Z"
	got := Long()
	for _, want := range []string{"qmdscan " + Version, "(abc123)", "built 2024-01-15T10:30:00Z", "scanner " + ScannerABI} {
		if !strings.Contains(got, want) {
			t.Fatalf("Long() = %q, missing %q", got, want)
		}
	}
}
