package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileExists checks if a file exists and is not a directory before we
// try using it to prevent further errors.
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// UserConfigFile returns the path of fileName inside the per-user config directory
// for appDir, e.g. $XDG_CONFIG_HOME/<appDir>/<fileName> on Linux
func UserConfigFile(appDir string, fileName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}

	return filepath.Join(configDir, appDir, fileName), nil
}
