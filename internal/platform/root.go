package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFile is the name of the journal configuration file.
const ConfigFile = "dreamlog.yaml"

// FindRoot walks upwards from startDir looking for a journal root.
// Indicators are a .dreamlog directory or a dreamlog.yaml file.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ".dreamlog") || hasFile(dir, ConfigFile) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
