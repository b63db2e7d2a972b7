// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wneessen/weatherdash/internal/logger"
	"github.com/wneessen/weatherdash/internal/weather"
)

const (
	StatusEmptyQuery = "Please enter a city name."
	statusUpdated    = "Updated weather for %s."
)

var ErrEmptyQuery = errors.New("empty city query")

// Search fetches the current weather, air quality and hourly forecast for city and
// replaces the displayed state. On failure the displayed state is left untouched.
func (s *Service) Search(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		s.renderer.Status(StatusEmptyQuery, false)
		return ErrEmptyQuery
	}

	s.renderer.Loading(true)
	defer s.renderer.Loading(false)

	units := s.Units()
	s.logger.Debug("fetching weather", slog.String("city", city), slog.String("units", string(units)))
	current, err := s.provider.Current(ctx, city, units)
	if err != nil {
		s.reportError(err, slog.String("city", city))
		return err
	}
	air, err := s.provider.AirQuality(ctx, current.Latitude, current.Longitude)
	if err != nil {
		s.reportError(err, slog.String("city", current.City))
		return err
	}
	hourly, err := s.provider.HourlyForecast(ctx, current.Latitude, current.Longitude, units)
	if err != nil {
		s.reportError(err, slog.String("city", current.City))
		return err
	}

	s.stateLock.Lock()
	s.current = &current
	s.air = air
	s.hourly = hourly
	s.stateLock.Unlock()

	s.renderer.Weather(current, air, hourly)
	s.tick(s.now())
	s.renderer.Status(fmt.Sprintf(statusUpdated, current.City), true)
	return nil
}

// Locate resolves the network location to a city and searches for it.
func (s *Service) Locate(ctx context.Context) error {
	city, err := s.locator.Locate(ctx)
	if err != nil {
		s.reportError(err)
		return err
	}
	s.logger.Debug("network location resolved", slog.String("city", city))
	return s.Search(ctx, city)
}

// ToggleUnits switches between metric and imperial units, fetches the displayed city again
// and refreshes the watchlist. It returns the new unit system.
func (s *Service) ToggleUnits(ctx context.Context) weather.Units {
	s.stateLock.Lock()
	s.units = s.units.Toggle()
	units := s.units
	var city string
	if s.current != nil {
		city = s.current.City
	}
	s.stateLock.Unlock()

	s.logger.Debug("unit system changed", slog.String("units", string(units)))
	if city != "" {
		_ = s.Search(ctx, city)
	}
	s.triggerWatchlistRefresh(ctx)
	return units
}

// reportError sends the user facing reason of err to the renderer.
func (s *Service) reportError(err error, attrs ...any) {
	s.renderer.Status(reason(err), false)
	s.logger.Error("weather request failed", append(attrs, logger.Err(err))...)
}

// reason returns the message to show for err.
func reason(err error) string {
	var svcErr *weather.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Reason
	}
	return err.Error()
}
