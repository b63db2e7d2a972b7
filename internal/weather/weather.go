// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package weather holds the provider independent weather domain: snapshots, air quality,
// hourly forecast points and the computations on top of them.
package weather

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Units is the unit system data is requested and displayed in.
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

// ErrUnsupportedUnits is returned for unit systems other than metric and imperial.
var ErrUnsupportedUnits = errors.New("unsupported unit system")

// Provider is implemented by each weather API backend.
type Provider interface {
	Name() string
	Current(ctx context.Context, city string, units Units) (Snapshot, error)
	AirQuality(ctx context.Context, lat, lon float64) (AirQuality, error)
	HourlyForecast(ctx context.Context, lat, lon float64, units Units) ([]HourlyPoint, error)
}

// Snapshot is the current weather of a city at the time it was fetched. A snapshot is
// never updated, the next fetch for the same city supersedes it.
type Snapshot struct {
	City             string
	Country          string
	Temperature      float64
	FeelsLike        float64
	Description      string
	Humidity         int
	WindSpeed        float64
	Icon             string
	Sunrise          time.Time
	Sunset           time.Time
	UTCOffsetSeconds int
	Latitude         float64
	Longitude        float64
	Units            Units
}

// AirQuality holds the air quality index and the pollutant concentrations in µg/m³ for a
// coordinate pair.
type AirQuality struct {
	AQI  int
	CO   float64
	NO2  float64
	O3   float64
	PM25 float64
	PM10 float64
}

// HourlyPoint is a single entry of the hourly forecast.
type HourlyPoint struct {
	Time        time.Time
	Label       string
	Temperature float64
	Icon        string
	Humidity    int
	Description string
}

// ParseUnits validates a unit system string.
func ParseUnits(val string) (Units, error) {
	switch Units(val) {
	case Metric, Imperial:
		return Units(val), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedUnits, val)
	}
}

// Valid reports whether u is metric or imperial.
func (u Units) Valid() bool {
	return u == Metric || u == Imperial
}

// Toggle returns the other unit system.
func (u Units) Toggle() Units {
	if u == Imperial {
		return Metric
	}
	return Imperial
}

// TemperatureSymbol returns the temperature unit symbol.
func (u Units) TemperatureSymbol() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

// WindSpeedSymbol returns the wind speed unit symbol.
func (u Units) WindSpeedSymbol() string {
	if u == Imperial {
		return "mph"
	}
	return "m/s"
}

// Location returns the fixed zone of the snapshot's UTC offset.
func (s Snapshot) Location() *time.Location {
	return time.FixedZone("", s.UTCOffsetSeconds)
}

// LocalSunrise returns the sunrise in the snapshot's own time zone.
func (s Snapshot) LocalSunrise() time.Time {
	return s.Sunrise.In(s.Location())
}

// LocalSunset returns the sunset in the snapshot's own time zone.
func (s Snapshot) LocalSunset() time.Time {
	return s.Sunset.In(s.Location())
}

var aqiLabels = map[int]string{
	1: "Good",
	2: "Fair",
	3: "Moderate",
	4: "Poor",
	5: "Very Poor",
}

// Label returns the name of the AQI class.
func (a AirQuality) Label() string {
	if label, ok := aqiLabels[a.AQI]; ok {
		return label
	}
	return "Unknown"
}
