package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration, for both the dashboard
// client and the embedded API server.
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Weather   WeatherConfig   `mapstructure:"weather"`
	Log       LogConfig       `mapstructure:"log"`
}

// APIConfig holds settings for the client side (where the Homely API lives).
type APIConfig struct {
	URL string `mapstructure:"url"` // Base URL of the Homely API
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // "development" or "production"
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`            // "sqlite" or "postgres"
	DSN             string `mapstructure:"dsn"`               // Connection string
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`    // Maximum idle connections (Postgres)
	MaxOpenConns    int    `mapstructure:"max_open_conns"`    // Maximum open connections (Postgres)
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // Connection max lifetime in minutes (Postgres)
}

// AuthConfig holds authentication configuration for the server.
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`       // Secret for JWT signing
	AccessTTL      time.Duration `mapstructure:"access_ttl"`       // Access token lifetime
	RefreshTTL     time.Duration `mapstructure:"refresh_ttl"`      // Refresh token lifetime
	GoogleIssuer   string        `mapstructure:"google_issuer"`    // OIDC issuer for Google token conversion
	GoogleClientID string        `mapstructure:"google_client_id"` // Audience expected on Google ID tokens
}

// ProvidersConfig holds API keys for the third-party data providers the
// client pulls weather, location and font data from.
type ProvidersConfig struct {
	OpenWeatherKey string `mapstructure:"open_weather_key"`
	GoogleMapsKey  string `mapstructure:"google_maps_key"`
	GoogleFontsKey string `mapstructure:"google_fonts_key"`
}

// WeatherConfig controls weather cache freshness and polling.
type WeatherConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`           // Cache entry freshness window
	PollInterval time.Duration `mapstructure:"poll_interval"` // Refresh cadence while widgets are connected
	Units        string        `mapstructure:"units"`         // Default units: "metric" or "imperial"
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Format string `mapstructure:"format"` // "json" or "text"
	Level  string `mapstructure:"level"`  // "debug", "info", "warn", "error"
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("api.url", "http://localhost:8600")
	v.SetDefault("server.port", 8600)
	v.SetDefault("server.mode", "development")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./homely.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.access_ttl", 15*time.Minute)
	v.SetDefault("auth.refresh_ttl", 30*24*time.Hour)
	v.SetDefault("auth.google_issuer", "https://accounts.google.com")
	v.SetDefault("weather.ttl", 30*time.Minute)
	v.SetDefault("weather.poll_interval", time.Hour)
	v.SetDefault("weather.units", "metric")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.level", "info")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/homely")
	v.AddConfigPath("/etc/homely")

	v.SetEnvPrefix("HOMELY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; defaults plus env vars are enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
