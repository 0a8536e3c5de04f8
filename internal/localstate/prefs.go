package localstate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds dashboard UI preferences.
type Prefs struct {
	Theme        string `toml:"theme"`
	Units        string `toml:"units"`
	ClockFormat  string `toml:"clock_format"`
	UseLocalTime bool   `toml:"use_local_time"`
	Timezone     string `toml:"timezone"`
}

const (
	defaultTheme       = "auto"
	defaultUnits       = "metric"
	defaultClockFormat = "15:04"
)

func defaultPrefs() Prefs {
	return Prefs{
		Theme:        defaultTheme,
		Units:        defaultUnits,
		ClockFormat:  defaultClockFormat,
		UseLocalTime: true,
	}
}

// PrefsPath returns the path to prefs.toml.
func PrefsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "prefs.toml"), nil
}

// LoadPrefs reads preferences from path, falling back to defaults when the
// file is missing or unreadable.
func LoadPrefs(path string) Prefs {
	prefs := defaultPrefs()

	data, err := os.ReadFile(path)
	if err != nil {
		return prefs
	}
	if err := toml.Unmarshal(data, &prefs); err != nil {
		return defaultPrefs()
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if strings.TrimSpace(prefs.Units) == "" {
		prefs.Units = defaultUnits
	}
	if strings.TrimSpace(prefs.ClockFormat) == "" {
		prefs.ClockFormat = defaultClockFormat
	}
	return prefs
}

// SavePrefs writes preferences to path, creating parent directories.
func SavePrefs(path string, prefs Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshaling prefs: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing prefs: %w", err)
	}
	return nil
}
