// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openweathermap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/wneessen/weatherdash/internal/http"
	"github.com/wneessen/weatherdash/internal/logger"
	"github.com/wneessen/weatherdash/internal/weather"
)

const (
	name = "openweathermap"

	DefaultBaseURL   = "https://api.openweathermap.org/data/2.5"
	DefaultRateLimit = 60 // requests per minute
	DefaultBurst     = 10

	MissingAPIKeyReason = "Missing API key. Define OPENWEATHER_API_KEY in .env or environment."
	defaultAPIError     = "request failed"
)

// Options configures the OpenWeatherMap client.
type Options struct {
	APIKey         string
	BaseURL        string
	ForecastPoints int
	// RateLimit is the number of requests per minute. A value <= 0 disables limiting.
	RateLimit float64
	Burst     int
}

// OpenWeatherMap is a weather.Provider backed by the OpenWeatherMap 2.5 REST API.
type OpenWeatherMap struct {
	apiKey  string
	baseURL string
	points  int
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
	now     func() time.Time
}

type apiError struct {
	Message string `json:"message"`
}

type currentResponse struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int    `json:"timezone"`
	Name     string `json:"name"`
}

type airResponse struct {
	List []struct {
		Main struct {
			AQI int `json:"aqi"`
		} `json:"main"`
		Components struct {
			CO   float64 `json:"co"`
			NO2  float64 `json:"no2"`
			O3   float64 `json:"o3"`
			PM25 float64 `json:"pm2_5"`
			PM10 float64 `json:"pm10"`
		} `json:"components"`
	} `json:"list"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	} `json:"list"`
}

// New returns an OpenWeatherMap client. An empty API key is reported as *weather.ServiceError.
func New(http *http.Client, log *logger.Logger, opts Options) (*OpenWeatherMap, error) {
	if http == nil {
		return nil, errors.New("http client is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, weather.NewServiceError(MissingAPIKeyReason, nil)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.ForecastPoints <= 0 {
		opts.ForecastPoints = weather.DefaultForecastPoints
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultBurst
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit / 60)
	}

	return &OpenWeatherMap{
		apiKey:  opts.APIKey,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		points:  opts.ForecastPoints,
		http:    http,
		limiter: rate.NewLimiter(limit, opts.Burst),
		log:     log,
		now:     time.Now,
	}, nil
}

func (o *OpenWeatherMap) Name() string {
	return name
}

// Current returns the current weather for a free-text city query.
func (o *OpenWeatherMap) Current(ctx context.Context, city string, units weather.Units) (weather.Snapshot, error) {
	if !units.Valid() {
		return weather.Snapshot{}, fmt.Errorf("%w: %q", weather.ErrUnsupportedUnits, units)
	}

	query := url.Values{}
	query.Set("q", city)
	query.Set("units", string(units))
	res := new(currentResponse)
	if err := o.get(ctx, "/weather", query, res, "weather"); err != nil {
		return weather.Snapshot{}, err
	}

	snap := weather.Snapshot{
		City:             strings.TrimSpace(res.Name),
		Country:          res.Sys.Country,
		Temperature:      res.Main.Temp,
		FeelsLike:        res.Main.FeelsLike,
		Humidity:         res.Main.Humidity,
		WindSpeed:        res.Wind.Speed,
		UTCOffsetSeconds: res.Timezone,
		Latitude:         res.Coord.Lat,
		Longitude:        res.Coord.Lon,
		Units:            units,
	}
	if snap.City == "" {
		snap.City = strings.TrimSpace(city)
	}
	if len(res.Weather) > 0 {
		snap.Description = titleCase(res.Weather[0].Description)
		snap.Icon = res.Weather[0].Icon
	}

	if res.Sys.Sunrise == 0 || res.Sys.Sunset == 0 {
		now := o.now().UTC()
		snap.Sunrise, snap.Sunset = sunrise.SunriseSunset(snap.Latitude, snap.Longitude, now.Year(),
			now.Month(), now.Day())
		o.log.Debug("sunrise/sunset missing in API response, computed locally",
			slog.String("city", snap.City), slog.Time("sunrise", snap.Sunrise), slog.Time("sunset", snap.Sunset))
	} else {
		snap.Sunrise = time.Unix(res.Sys.Sunrise, 0).UTC()
		snap.Sunset = time.Unix(res.Sys.Sunset, 0).UTC()
	}

	return snap, nil
}

// AirQuality returns the air quality for a coordinate pair. Coordinates are passed through
// unvalidated.
func (o *OpenWeatherMap) AirQuality(ctx context.Context, lat, lon float64) (weather.AirQuality, error) {
	res := new(airResponse)
	if err := o.get(ctx, "/air_pollution", coordQuery(lat, lon), res, "air quality"); err != nil {
		return weather.AirQuality{}, err
	}
	if len(res.List) == 0 {
		return weather.AirQuality{}, weather.NewServiceError("No air quality data available", nil)
	}

	record := res.List[0]
	return weather.AirQuality{
		AQI:  record.Main.AQI,
		CO:   record.Components.CO,
		NO2:  record.Components.NO2,
		O3:   record.Components.O3,
		PM25: record.Components.PM25,
		PM10: record.Components.PM10,
	}, nil
}

// HourlyForecast returns the first forecast points of the 5 day/3 hour forecast for a
// coordinate pair.
func (o *OpenWeatherMap) HourlyForecast(ctx context.Context, lat, lon float64, units weather.Units) ([]weather.HourlyPoint, error) {
	if !units.Valid() {
		return nil, fmt.Errorf("%w: %q", weather.ErrUnsupportedUnits, units)
	}

	query := coordQuery(lat, lon)
	query.Set("units", string(units))
	res := new(forecastResponse)
	if err := o.get(ctx, "/forecast", query, res, "forecast"); err != nil {
		return nil, err
	}

	entries := make([]weather.ForecastEntry, 0, len(res.List))
	for _, item := range res.List {
		entry := weather.ForecastEntry{
			Timestamp:   item.Dt,
			Temperature: item.Main.Temp,
			Humidity:    item.Main.Humidity,
		}
		if len(item.Weather) > 0 {
			entry.Description = titleCase(item.Weather[0].Description)
			entry.Icon = item.Weather[0].Icon
		}
		entries = append(entries, entry)
	}
	return weather.NormalizeForecast(entries, o.points), nil
}

// get performs a single rate limited API call and maps every failure to a *weather.ServiceError.
func (o *OpenWeatherMap) get(ctx context.Context, path string, query url.Values, target any, what string) error {
	if err := o.limiter.Wait(ctx); err != nil {
		return weather.NewServiceError("Network error while fetching "+what, err)
	}

	query.Set("appid", o.apiKey)
	o.log.Debug("requesting OpenWeatherMap API", slog.String("path", path), slog.String("subject", what))
	code, err := o.http.Get(ctx, o.baseURL+path, target, query, nil)
	if err == nil {
		return nil
	}

	var statusErr *http.StatusError
	switch {
	case errors.As(err, &statusErr):
		return weather.NewServiceError(titleCase(apiMessage(statusErr.Body)), err)
	case code >= 200 && code <= 299:
		return weather.NewServiceError("Invalid response while fetching "+what, err)
	default:
		return weather.NewServiceError("Network error while fetching "+what, err)
	}
}

func coordQuery(lat, lon float64) url.Values {
	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return query
}

// apiMessage extracts the message field of an API error body.
func apiMessage(body []byte) string {
	res := new(apiError)
	if err := json.Unmarshal(body, res); err != nil || strings.TrimSpace(res.Message) == "" {
		return defaultAPIError
	}
	return res.Message
}

// titleCase upper-cases the first letter of every word. A Caser is not safe for concurrent
// use, so a new one is created for each call.
func titleCase(val string) string {
	return cases.Title(language.English).String(val)
}
