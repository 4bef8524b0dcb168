package platform_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/dreamlog/internal/platform"
)

func TestResolveDataPath(t *testing.T) {
	t.Parallel()

	devBase := filepath.Join(os.TempDir(), "dreamlog-dev")
	insideTemp := filepath.Join(os.TempDir(), "some-test-dir")

	tests := []struct {
		name      string
		userPath  string
		forceTemp bool
		expected  string
	}{
		{"Normal Mode - Empty Path", "", false, "."},
		{"Normal Mode - Specific Path", "/some/path", false, "/some/path"},
		{"Dev Mode - Empty Path", "", true, filepath.Join(devBase, "default")},
		{"Dev Mode - Current Dir", ".", true, filepath.Join(devBase, "default")},
		{"Dev Mode - Relative Name", "my-journal", true, filepath.Join(devBase, "my-journal")},
		{"Dev Mode - Clean Name", "../bad/path", true, filepath.Join(devBase, "path")},
		{"Dev Mode - Exception for Temp Dir", insideTemp, true, insideTemp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := platform.ResolveDataPath(tt.userPath, tt.forceTemp)
			if got != tt.expected {
				t.Errorf("ResolveDataPath(%q, %v) = %q, want %q", tt.userPath, tt.forceTemp, got, tt.expected)
			}
		})
	}
}

func TestIsDevRun(t *testing.T) {
	// Test binaries end in .test, so this is always a dev run.
	if !platform.IsDevRun() {
		t.Error("expected IsDevRun to detect go test")
	}
}
