// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import "time"

const (
	// DefaultForecastPoints covers 48 hours at 3-hour granularity.
	DefaultForecastPoints = 16

	// HourLabelFormat is the display format of an hourly forecast label.
	HourLabelFormat = "3 PM"
)

// ForecastEntry is one raw 3-hour interval record of a forecast payload.
type ForecastEntry struct {
	Timestamp   int64
	Temperature float64
	Icon        string
	Humidity    int
	Description string
}

// NormalizeForecast converts raw forecast entries into hourly points labeled in UTC. The
// input order is kept and the result holds at most limit points. A limit <= 0 selects
// DefaultForecastPoints.
func NormalizeForecast(entries []ForecastEntry, limit int) []HourlyPoint {
	if limit <= 0 {
		limit = DefaultForecastPoints
	}
	if len(entries) < limit {
		limit = len(entries)
	}

	points := make([]HourlyPoint, 0, limit)
	for _, entry := range entries[:limit] {
		at := time.Unix(entry.Timestamp, 0).UTC()
		points = append(points, HourlyPoint{
			Time:        at,
			Label:       at.Format(HourLabelFormat),
			Temperature: entry.Temperature,
			Icon:        entry.Icon,
			Humidity:    entry.Humidity,
			Description: entry.Description,
		})
	}
	return points
}
