package localstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/homely-dev/homely/internal/weather"
)

// WeatherSnapshotPath returns the path to the cached weather snapshot.
func WeatherSnapshotPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "weather.json"), nil
}

// SaveWeatherSnapshot persists the weather cache so a restarted client can
// render last-known conditions before the first fetch completes.
func SaveWeatherSnapshot(path string, entries map[string]weather.Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling weather snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing weather snapshot: %w", err)
	}
	return nil
}

// LoadWeatherSnapshot reads a persisted weather cache. A missing file
// yields an empty map.
func LoadWeatherSnapshot(path string) (map[string]weather.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]weather.Entry{}, nil
		}
		return nil, fmt.Errorf("reading weather snapshot: %w", err)
	}

	var entries map[string]weather.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing weather snapshot: %w", err)
	}
	if entries == nil {
		entries = map[string]weather.Entry{}
	}
	return entries, nil
}
