// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/wneessen/weatherdash/internal/config"
	"github.com/wneessen/weatherdash/internal/job"
	"github.com/wneessen/weatherdash/internal/logger"
	"github.com/wneessen/weatherdash/internal/watchlist"
	"github.com/wneessen/weatherdash/internal/weather"
)

const (
	refreshJobName   = "watchlist_refresh_job"
	countdownJobName = "countdown_job"
)

// Renderer is the display surface the service reports to. Implementations must be safe
// for concurrent use.
type Renderer interface {
	Status(msg string, success bool)
	Loading(loading bool)
	Weather(current weather.Snapshot, air weather.AirQuality, hourly []weather.HourlyPoint)
	Watchlist(snapshots []weather.Snapshot, placeholder string)
	Countdown(text string)
}

// Locator resolves the city of the host's network location.
type Locator interface {
	Locate(ctx context.Context) (string, error)
}

// WatchlistStore is the persisted list of cities to compare.
type WatchlistStore interface {
	List() []string
	Contains(city string) bool
	Add(city string) (bool, error)
	Remove(city string) (bool, error)
}

type Service struct {
	config    *config.Config
	logger    *logger.Logger
	provider  weather.Provider
	locator   Locator
	store     WatchlistStore
	renderer  Renderer
	scheduler gocron.Scheduler
	now       func() time.Time
	SignalSrc signalSource

	jobLock    sync.RWMutex
	refreshJob gocron.Job

	// refreshLock keeps watchlist batches from interleaving
	refreshLock sync.Mutex

	// lastResume is the UnixNano time of the last handled resume from sleep
	lastResume  atomic.Int64
	resumeDelay time.Duration

	stateLock     sync.RWMutex
	units         weather.Units
	current       *weather.Snapshot
	air           weather.AirQuality
	hourly        []weather.HourlyPoint
	snapshots     []weather.Snapshot
	lastCountdown string
}

func New(conf *config.Config, log *logger.Logger, renderer Renderer) (*Service, error) {
	if conf == nil {
		return nil, errors.New("config is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if renderer == nil {
		return nil, errors.New("renderer is required")
	}

	service := &Service{
		config:      conf,
		logger:      log,
		renderer:    renderer,
		now:         time.Now,
		SignalSrc:   stdLibSignalSource{},
		units:       conf.UnitSystem(),
		resumeDelay: networkWakeupDelay,
	}

	var err error
	httpClient := newHTTPClient(conf, log)
	service.provider, err = selectWeatherProvider(conf, log, httpClient)
	if err != nil {
		return nil, err
	}
	service.locator, err = selectLocator(conf, log, httpClient)
	if err != nil {
		return nil, err
	}

	store, err := watchlist.New(conf.Storage.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open watchlist: %w", err)
	}
	if err = store.Load(); err != nil {
		log.Error("failed to load watchlist, starting with an empty list", logger.Err(err))
	}
	service.store = store

	service.scheduler, err = gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return service, nil
}

// Run starts the periodic watchlist refresh, the countdown tick and the sleep/resume monitor
// and blocks until ctx is cancelled. The watchlist is refreshed once right away.
func (s *Service) Run(ctx context.Context) error {
	refreshJob, err := s.scheduler.NewJob(
		gocron.DurationJob(s.config.Intervals.WatchlistRefresh),
		gocron.NewTask(s.RefreshWatchlist),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeWait),
		gocron.WithName(refreshJobName),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", refreshJobName, err)
	}
	s.setRefreshJob(refreshJob)
	s.scheduler.Start()

	s.tick(s.now())
	countdown := job.New(countdownJobName, s.config.Intervals.Countdown, s.logger, func(context.Context) {
		s.tick(s.now())
	})
	go countdown.Start(ctx)

	sigChan := make(chan os.Signal, 1)
	s.SignalSrc.Notify(sigChan, syscall.SIGUSR1, syscall.SIGUSR2)
	go s.HandleSignals(ctx, sigChan)
	go s.monitorSleepResume(ctx)

	// Wait for the context to cancel
	<-ctx.Done()
	s.SignalSrc.Stop(sigChan)
	s.setRefreshJob(nil)
	return s.scheduler.Shutdown()
}

// Current returns the snapshot of the last successful search.
func (s *Service) Current() (weather.Snapshot, bool) {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()
	if s.current == nil {
		return weather.Snapshot{}, false
	}
	return *s.current, true
}

func (s *Service) AirQuality() weather.AirQuality {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()
	return s.air
}

func (s *Service) Hourly() []weather.HourlyPoint {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()
	return slices.Clone(s.hourly)
}

func (s *Service) Units() weather.Units {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()
	return s.units
}

// Watchlist returns the snapshots of the last watchlist refresh.
func (s *Service) Watchlist() []weather.Snapshot {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()
	return slices.Clone(s.snapshots)
}

// Cities returns the persisted watchlist.
func (s *Service) Cities() []string {
	return s.store.List()
}

func (s *Service) setRefreshJob(j gocron.Job) {
	s.jobLock.Lock()
	defer s.jobLock.Unlock()
	s.refreshJob = j
}

func (s *Service) getRefreshJob() gocron.Job {
	s.jobLock.RLock()
	defer s.jobLock.RUnlock()
	return s.refreshJob
}
