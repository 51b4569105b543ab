package version

import (
	"strings"
	"testing"
)

func TestString_ContainsVersionAndBuildTime(t *testing.T) {
	t.Parallel()

	s := String()
	if !strings.Contains(s, Version) {
		t.Fatalf("version string %q does not contain %q", s, Version)
	}
	if !strings.Contains(s, BuildTime) {
		t.Fatalf("version string %q does not contain %q", s, BuildTime)
	}
	if !strings.HasPrefix(s, "agentgate version ") {
		t.Fatalf("version string %q has unexpected prefix", s)
	}
}
