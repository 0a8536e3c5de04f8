package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/homely-dev/homely/internal/config"
	"github.com/homely-dev/homely/internal/localstate"
	"github.com/homely-dev/homely/internal/location"
	"github.com/homely-dev/homely/internal/logger"
	"github.com/homely-dev/homely/internal/store"
	"github.com/homely-dev/homely/internal/weather"
)

var weatherUnits string

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show the weather for your current location",
	Long: `Resolves your location through the configured geolocation provider and
prints current conditions plus the daily forecast. Results are cached
locally, so repeated calls inside the freshness window cost no API calls.`,
	RunE: runWeather,
}

func init() {
	weatherCmd.Flags().StringVar(&weatherUnits, "units", "", "Units: metric or imperial (default from config)")
}

func runWeather(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	logger.Init(cfg.Log.Format, cfg.Log.Level)

	if cfg.Providers.OpenWeatherKey == "" || cfg.Providers.GoogleMapsKey == "" {
		return fmt.Errorf("weather needs HOMELY_PROVIDERS_OPEN_WEATHER_KEY and HOMELY_PROVIDERS_GOOGLE_MAPS_KEY")
	}

	units := weatherUnits
	if units == "" {
		units = cfg.Weather.Units
	}

	locations := location.NewService(location.NewGoogleClient(cfg.Providers.GoogleMapsKey))
	cache := weather.NewCache(cfg.Weather.TTL)

	// Seed the cache from the snapshot of the previous run.
	snapshotPath, err := localstate.WeatherSnapshotPath()
	if err == nil {
		if entries, err := localstate.LoadWeatherSnapshot(snapshotPath); err == nil {
			cache.Restore(entries)
		}
	}

	widgets := store.NewWidgetStore(nil)
	svc := weather.NewService(
		weather.NewOWMClient(cfg.Providers.OpenWeatherKey),
		cache,
		widgets,
		locations,
		cfg.Weather.PollInterval,
		units,
	)

	entry, err := svc.Resolve(ctx, weather.Item{UseCurrentLocation: true})
	if err != nil {
		if entry.FetchedOn.IsZero() {
			return fmt.Errorf("fetching weather: %w", err)
		}
		fmt.Printf("Provider unreachable (%v), showing data from %s\n",
			err, entry.FetchedOn.Format(time.RFC822))
	}

	if snapshotPath != "" {
		_ = localstate.SaveWeatherSnapshot(snapshotPath, cache.Snapshot())
	}

	unit := "°C"
	if units == "imperial" {
		unit = "°F"
	}

	fmt.Printf("%s\n", entry.FetchedWith.Location.FormattedAddress)
	fmt.Printf("Now: %.1f%s (feels like %.1f%s), %s\n",
		entry.Currently.Temp, unit, entry.Currently.FeelsLike, unit, entry.Currently.Description)
	fmt.Printf("Humidity %d%%, wind %.1f\n", entry.Currently.Humidity, entry.Currently.WindSpeed)

	for _, day := range entry.Forecast {
		fmt.Printf("  %s  %5.1f / %5.1f  %s\n",
			time.Unix(day.Date, 0).Format("Mon 02 Jan"), day.Min, day.Max, day.Description)
	}
	return nil
}
