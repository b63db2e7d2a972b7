// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kkyr/fig"

	"github.com/wneessen/weatherdash/internal/weather"
)

const (
	configEnv = "WEATHERDASH"

	// APIKeyEnv is the environment variable the OpenWeatherMap API key is read from when
	// the config does not set one.
	APIKeyEnv = "OPENWEATHER_API_KEY"

	DefaultStorageDir = "data"

	maxForecastPoints = 40
)

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: metric, imperial
	Units    string     `fig:"units" default:"metric"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	OpenWeather struct {
		APIKey  string `fig:"apikey"`
		BaseURL string `fig:"base_url" default:"https://api.openweathermap.org/data/2.5"`
		// Requests per minute, 0 disables the limiter
		RateLimit float64 `fig:"rate_limit" default:"60"`
		Burst     int     `fig:"burst" default:"10"`
	} `fig:"openweather"`

	GeoIP struct {
		URL string `fig:"url" default:"http://ip-api.com/json/"`
	} `fig:"geoip"`

	Weather struct {
		// Allowed value: 1 to 40
		ForecastPoints int `fig:"forecast_points" default:"16"`
	} `fig:"weather"`

	Storage struct {
		Dir string `fig:"dir"`
	} `fig:"storage"`

	Intervals struct {
		Countdown        time.Duration `fig:"countdown" default:"30s"`
		WatchlistRefresh time.Duration `fig:"watchlist_refresh" default:"15m"`
	} `fig:"intervals"`

	HTTP struct {
		Timeout time.Duration `fig:"timeout" default:"10s"`
	} `fig:"http"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

// LoadDotEnv loads environment variables from the given .env files, or from ".env" in the
// working directory when none are given. Missing files are ignored and variables that are
// already set are never overwritten.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %q: %w", file, err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	if _, err := weather.ParseUnits(c.Units); err != nil {
		return fmt.Errorf("invalid units: %w", err)
	}
	if c.Weather.ForecastPoints < 1 || c.Weather.ForecastPoints > maxForecastPoints {
		return fmt.Errorf("invalid forecast points: %d", c.Weather.ForecastPoints)
	}
	if c.OpenWeather.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit: %g", c.OpenWeather.RateLimit)
	}
	if c.OpenWeather.Burst < 1 {
		return fmt.Errorf("invalid burst: %d", c.OpenWeather.Burst)
	}
	if c.Intervals.Countdown <= 0 {
		return fmt.Errorf("invalid countdown interval: %s", c.Intervals.Countdown)
	}
	if c.Intervals.WatchlistRefresh <= 0 {
		return fmt.Errorf("invalid watchlist refresh interval: %s", c.Intervals.WatchlistRefresh)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("invalid HTTP timeout: %s", c.HTTP.Timeout)
	}
	if strings.TrimSpace(c.OpenWeather.APIKey) == "" {
		c.OpenWeather.APIKey = strings.TrimSpace(os.Getenv(APIKeyEnv))
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = defaultStorageDir()
	}

	return nil
}

// UnitSystem returns the configured units as weather.Units. It must only be called on a
// validated config.
func (c *Config) UnitSystem() weather.Units {
	return weather.Units(c.Units)
}

// defaultStorageDir returns the data directory next to the executable, falling back to
// the working directory.
func defaultStorageDir() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultStorageDir
	}
	return filepath.Join(filepath.Dir(exe), DefaultStorageDir)
}
