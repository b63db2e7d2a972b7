// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wneessen/weatherdash/internal/weather"
)

func TestNew(t *testing.T) {
	const (
		expectDefaultUnits            = "metric"
		expectLogLevel                = slog.LevelInfo
		expectForecastPoints          = 16
		expectRateLimit               = 60
		expectBurst                   = 10
		expectIntervalCountdown       = time.Second * 30
		expectIntervalWatchlistUpdate = time.Minute * 15
		expectHTTPTimeout             = time.Second * 10
	)
	t.Run("new config with all defaults set", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Units != expectDefaultUnits {
			t.Errorf("expected units to be: %s, got %s", expectDefaultUnits, conf.Units)
		}
		if conf.UnitSystem() != weather.Metric {
			t.Errorf("expected unit system to be: %s, got %s", weather.Metric, conf.UnitSystem())
		}
		if conf.LogLevel != expectLogLevel {
			t.Errorf("expected log level to be: %s, got %s", expectLogLevel, conf.LogLevel)
		}
		if conf.Weather.ForecastPoints != expectForecastPoints {
			t.Errorf("expected forecast points to be: %d, got %d", expectForecastPoints,
				conf.Weather.ForecastPoints)
		}
		if conf.OpenWeather.RateLimit != expectRateLimit {
			t.Errorf("expected rate limit to be: %d, got %f", expectRateLimit, conf.OpenWeather.RateLimit)
		}
		if conf.OpenWeather.Burst != expectBurst {
			t.Errorf("expected burst to be: %d, got %d", expectBurst, conf.OpenWeather.Burst)
		}
		if conf.OpenWeather.BaseURL != "https://api.openweathermap.org/data/2.5" {
			t.Errorf("unexpected OpenWeatherMap base URL: %s", conf.OpenWeather.BaseURL)
		}
		if conf.GeoIP.URL != "http://ip-api.com/json/" {
			t.Errorf("unexpected GeoIP URL: %s", conf.GeoIP.URL)
		}
		if conf.Intervals.Countdown != expectIntervalCountdown {
			t.Errorf("expected countdown interval to be: %s, got %s", expectIntervalCountdown,
				conf.Intervals.Countdown)
		}
		if conf.Intervals.WatchlistRefresh != expectIntervalWatchlistUpdate {
			t.Errorf("expected watchlist refresh interval to be: %s, got %s", expectIntervalWatchlistUpdate,
				conf.Intervals.WatchlistRefresh)
		}
		if conf.HTTP.Timeout != expectHTTPTimeout {
			t.Errorf("expected HTTP timeout to be: %s, got %s", expectHTTPTimeout, conf.HTTP.Timeout)
		}
		if filepath.Base(conf.Storage.Dir) != DefaultStorageDir {
			t.Errorf("expected storage dir to end in %s, got %s", DefaultStorageDir, conf.Storage.Dir)
		}
		if conf.OpenWeather.APIKey != "" {
			t.Errorf("expected API key to be empty, got %q", conf.OpenWeather.APIKey)
		}
	})
	t.Run("API key falls back to the environment", func(t *testing.T) {
		t.Setenv(APIKeyEnv, " env-key ")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.OpenWeather.APIKey != "env-key" {
			t.Errorf("expected API key from environment, got %q", conf.OpenWeather.APIKey)
		}
	})
	t.Run("prefixed API key takes precedence", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "env-key")
		t.Setenv("WEATHERDASH_OPENWEATHER_APIKEY", "config-key")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.OpenWeather.APIKey != "config-key" {
			t.Errorf("expected prefixed API key, got %q", conf.OpenWeather.APIKey)
		}
	})
	t.Run("env overrides defaults", func(t *testing.T) {
		t.Setenv("WEATHERDASH_UNITS", "imperial")
		t.Setenv("WEATHERDASH_INTERVALS_COUNTDOWN", "1m")
		t.Setenv("WEATHERDASH_STORAGE_DIR", "/var/lib/weatherdash")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.UnitSystem() != weather.Imperial {
			t.Errorf("expected imperial units, got %s", conf.UnitSystem())
		}
		if conf.Intervals.Countdown != time.Minute {
			t.Errorf("expected countdown interval of 1m, got %s", conf.Intervals.Countdown)
		}
		if conf.Storage.Dir != "/var/lib/weatherdash" {
			t.Errorf("expected storage dir from env, got %s", conf.Storage.Dir)
		}
	})
	t.Run("new config with invalid values from env", func(t *testing.T) {
		t.Setenv("WEATHERDASH_LOGLEVEL", "invalid")
		_, err := New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate forecast points", func(t *testing.T) {
		t.Setenv("WEATHERDASH_WEATHER_FORECAST_POINTS", "0")
		_, err := New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
		t.Setenv("WEATHERDASH_WEATHER_FORECAST_POINTS", "41")
		_, err = New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate units", func(t *testing.T) {
		t.Setenv("WEATHERDASH_UNITS", "standard")
		_, err := New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate rate limit and burst", func(t *testing.T) {
		t.Setenv("WEATHERDASH_OPENWEATHER_RATE_LIMIT", "-1")
		if _, err := New(); err == nil {
			t.Error("expected config to fail, but didn't")
		}
		t.Setenv("WEATHERDASH_OPENWEATHER_RATE_LIMIT", "0")
		t.Setenv("WEATHERDASH_OPENWEATHER_BURST", "0")
		if _, err := New(); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("config validate intervals", func(t *testing.T) {
		t.Setenv("WEATHERDASH_INTERVALS_WATCHLIST_REFRESH", "-5m")
		if _, err := New(); err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
}

func TestNewFromFile(t *testing.T) {
	t.Run("reading config from valid file succeeds", func(t *testing.T) {
		conf, err := NewFromFile("../../etc", "config.toml")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Units != "metric" {
			t.Errorf("expected units to be: metric, got %s", conf.Units)
		}
		if conf.LogLevel != slog.LevelInfo {
			t.Errorf("expected log level to be: %s, got %s", slog.LevelInfo, conf.LogLevel)
		}
		if conf.Weather.ForecastPoints != 16 {
			t.Errorf("expected forecast points to be: 16, got %d", conf.Weather.ForecastPoints)
		}
		if conf.Intervals.WatchlistRefresh != time.Minute*15 {
			t.Errorf("expected watchlist refresh interval to be: 15m, got %s", conf.Intervals.WatchlistRefresh)
		}
	})
	t.Run("env overrides file values", func(t *testing.T) {
		t.Setenv("WEATHERDASH_WEATHER_FORECAST_POINTS", "8")
		conf, err := NewFromFile("../../etc", "config.toml")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Weather.ForecastPoints != 8 {
			t.Errorf("expected forecast points to be: 8, got %d", conf.Weather.ForecastPoints)
		}
	})
	t.Run("reading config from non-existent file fails", func(t *testing.T) {
		_, err := NewFromFile("../../etc", "non-existent.toml")
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("reading invalid config file fails", func(t *testing.T) {
		_, err := NewFromFile("../../testdata", "invalid.toml")
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("values are loaded from file", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")
		if err := os.Unsetenv(APIKeyEnv); err != nil {
			t.Fatalf("failed to unset env: %s", err)
		}
		file := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(file, []byte(APIKeyEnv+"=dotenv-key\n"), 0o600); err != nil {
			t.Fatalf("failed to write env file: %s", err)
		}
		if err := LoadDotEnv(file); err != nil {
			t.Fatalf("failed to load env file: %s", err)
		}
		if got := os.Getenv(APIKeyEnv); got != "dotenv-key" {
			t.Errorf("expected API key from env file, got %q", got)
		}
	})
	t.Run("existing values are kept", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "existing-key")
		file := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(file, []byte(APIKeyEnv+"=dotenv-key\n"), 0o600); err != nil {
			t.Fatalf("failed to write env file: %s", err)
		}
		if err := LoadDotEnv(file); err != nil {
			t.Fatalf("failed to load env file: %s", err)
		}
		if got := os.Getenv(APIKeyEnv); got != "existing-key" {
			t.Errorf("expected existing API key to be kept, got %q", got)
		}
	})
	t.Run("missing file is ignored", func(t *testing.T) {
		if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Errorf("expected missing env file to be ignored, got: %s", err)
		}
	})
}
