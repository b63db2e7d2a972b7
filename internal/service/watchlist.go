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
	PlaceholderEmpty       = "No cities yet. Search for a city and add it to the comparison."
	PlaceholderUnavailable = "Unable to load watchlist. Check your API key or network."

	statusAlreadyListed = "%s is already on your list."
	statusAdded         = "Added %s to comparison."
	statusRemoved       = "Removed %s from comparison."
	statusFailedSave    = "Unable to save watchlist."
)

var ErrNoCurrentCity = errors.New("no city has been searched yet")

// RefreshWatchlist fetches the current weather for every city on the watchlist, one after
// the other in list order, and renders the successful snapshots. A failing city is reported
// as status and skipped.
func (s *Service) RefreshWatchlist(ctx context.Context) {
	s.refreshLock.Lock()
	defer s.refreshLock.Unlock()

	cities := s.store.List()
	if len(cities) == 0 {
		s.setSnapshots(nil)
		s.renderer.Watchlist(nil, PlaceholderEmpty)
		return
	}

	units := s.Units()
	s.logger.Debug("refreshing watchlist", slog.Int("cities", len(cities)), slog.String("units", string(units)))
	snapshots := make([]weather.Snapshot, 0, len(cities))
	for _, city := range cities {
		if ctx.Err() != nil {
			s.logger.Debug("watchlist refresh cancelled", logger.Err(ctx.Err()))
			return
		}
		snapshot, err := s.provider.Current(ctx, city, units)
		if err != nil {
			s.renderer.Status(city+": "+reason(err), false)
			s.logger.Error("failed to fetch watchlist city", slog.String("city", city), logger.Err(err))
			continue
		}
		snapshots = append(snapshots, snapshot)
	}

	s.setSnapshots(snapshots)
	placeholder := ""
	if len(snapshots) == 0 {
		placeholder = PlaceholderUnavailable
	}
	s.renderer.Watchlist(snapshots, placeholder)
}

// AddCurrent adds the city of the last successful search to the watchlist.
func (s *Service) AddCurrent(ctx context.Context) error {
	current, ok := s.Current()
	if !ok {
		return ErrNoCurrentCity
	}
	return s.AddCity(ctx, current.City)
}

// AddCity adds city to the watchlist. Adding a city that is already listed only reports so.
func (s *Service) AddCity(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		s.renderer.Status(StatusEmptyQuery, false)
		return ErrEmptyQuery
	}

	added, err := s.store.Add(city)
	if err != nil {
		s.renderer.Status(statusFailedSave, false)
		s.logger.Error("failed to add city to watchlist", slog.String("city", city), logger.Err(err))
		return err
	}
	if !added {
		s.renderer.Status(fmt.Sprintf(statusAlreadyListed, city), true)
		return nil
	}

	s.renderer.Status(fmt.Sprintf(statusAdded, city), true)
	s.triggerWatchlistRefresh(ctx)
	return nil
}

// Remove deletes city from the watchlist. Removing a city that is not listed does nothing.
func (s *Service) Remove(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	removed, err := s.store.Remove(city)
	if err != nil {
		s.renderer.Status(statusFailedSave, false)
		s.logger.Error("failed to remove city from watchlist", slog.String("city", city), logger.Err(err))
		return err
	}
	if !removed {
		return nil
	}

	s.renderer.Status(fmt.Sprintf(statusRemoved, city), true)
	s.triggerWatchlistRefresh(ctx)
	return nil
}

// triggerWatchlistRefresh queues a run of the refresh job. Before Run has scheduled the job,
// the refresh is executed right away.
func (s *Service) triggerWatchlistRefresh(ctx context.Context) {
	if refreshJob := s.getRefreshJob(); refreshJob != nil {
		err := refreshJob.RunNow()
		if err == nil {
			return
		}
		s.logger.Debug("failed to queue watchlist refresh, refreshing directly", logger.Err(err))
	}
	s.RefreshWatchlist(ctx)
}

func (s *Service) setSnapshots(snapshots []weather.Snapshot) {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()
	s.snapshots = snapshots
}
