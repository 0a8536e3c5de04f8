// Package localstate persists per-user client state: auth credentials,
// UI preferences, and the last weather snapshot.
package localstate

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDir returns the config directory (~/.config/homely/ or platform equivalent).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Preferences", "homely"), nil
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "homely"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "homely"), nil
	default:
		return filepath.Join(home, ".config", "homely"), nil
	}
}
