// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/wneessen/weatherdash/internal/logger"
)

const (
	dbusInterface   = "org.freedesktop.login1.Manager"
	dbusWatchMember = "PrepareForSleep"

	debounceWindow   = 2 * time.Second
	signalBufferSize = 8

	busReconnectDelay   = 5 * time.Second
	networkWakeupDelay  = 10 * time.Second
	reconnectDelay      = 2 * time.Second
	subscribeRetryDelay = 10 * time.Second
)

// monitorSleepResume watches the logind PrepareForSleep signal on the system bus and brings
// the dashboard up to date after the system resumed. It reconnects until ctx is cancelled.
func (s *Service) monitorSleepResume(ctx context.Context) {
	for {
		conn := s.connectToSystemBus(ctx)
		if conn == nil {
			return
		}

		if !s.setupSleepMonitoring(ctx, conn) {
			if ctx.Err() != nil {
				return
			}
			continue
		}

		sigCh := make(chan *dbus.Signal, signalBufferSize)
		conn.Signal(sigCh)
		s.logger.Debug("subscribed to dbus signal", slog.String("interface", dbusInterface),
			slog.String("member", dbusWatchMember))

		s.handleSleepSignals(ctx, sigCh)

		conn.RemoveSignal(sigCh)
		s.closeBus(conn)

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

// connectToSystemBus connects to the system bus, retrying until it succeeds or ctx is
// cancelled. It returns nil on cancellation.
func (s *Service) connectToSystemBus(ctx context.Context) *dbus.Conn {
	for {
		conn, err := dbus.ConnectSystemBus(dbus.WithContext(ctx))
		if err == nil {
			return conn
		}
		s.logger.Debug("failed to connect to system bus", logger.Err(err))
		select {
		case <-time.After(busReconnectDelay):
		case <-ctx.Done():
			return nil
		}
	}
}

// setupSleepMonitoring subscribes to the sleep signal. On failure the connection is closed
// and false is returned after the retry delay.
func (s *Service) setupSleepMonitoring(ctx context.Context, conn *dbus.Conn) bool {
	err := conn.AddMatchSignalContext(ctx, dbus.WithMatchInterface(dbusInterface),
		dbus.WithMatchMember(dbusWatchMember))
	if err == nil {
		return true
	}

	s.logger.Error("failed to subscribe to dbus signal", slog.String("interface", dbusInterface),
		slog.String("member", dbusWatchMember), logger.Err(err))
	s.closeBus(conn)
	select {
	case <-time.After(subscribeRetryDelay):
	case <-ctx.Done():
	}
	return false
}

// handleSleepSignals processes signals until ctx is cancelled or the channel is closed.
func (s *Service) handleSleepSignals(ctx context.Context, sigCh chan *dbus.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sgn, ok := <-sigCh:
			if !ok {
				return
			}
			s.processSleepSignal(ctx, sgn)
		}
	}
}

// processSleepSignal handles a PrepareForSleep signal. Its single bool argument is false
// when the system resumed. It reports whether a resume was handled.
func (s *Service) processSleepSignal(ctx context.Context, sgn *dbus.Signal) bool {
	if sgn == nil || len(sgn.Body) != 1 {
		return false
	}
	sleeping, ok := sgn.Body[0].(bool)
	if !ok || sleeping {
		return false
	}
	return s.handleResumeEvent(ctx)
}

// handleResumeEvent updates the countdown right away and, once the network had time to come
// back, fetches the displayed city again and refreshes the watchlist. Resume events within
// debounceWindow of the previous one are ignored.
func (s *Service) handleResumeEvent(ctx context.Context) bool {
	now := s.now()
	last := s.lastResume.Load()
	if last != 0 && now.Sub(time.Unix(0, last)) < debounceWindow {
		return false
	}
	s.lastResume.Store(now.UnixNano())

	s.logger.Debug("system resumed from sleep")
	s.tick(now)

	select {
	case <-ctx.Done():
		return false
	case <-time.After(s.resumeDelay):
	}

	if current, ok := s.Current(); ok {
		_ = s.Search(ctx, current.City)
	}
	s.triggerWatchlistRefresh(ctx)
	return true
}

func (s *Service) closeBus(conn *dbus.Conn) {
	if err := conn.Close(); err != nil {
		s.logger.Debug("failed to close system bus connection", logger.Err(err))
	}
}
