// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"time"

	"github.com/wneessen/weatherdash/internal/weather"
)

const CountdownPlaceholder = "Search for a city to start the countdown."

// tick recomputes the countdown text and renders it if it changed since the last tick. It
// reports whether the renderer was called.
func (s *Service) tick(now time.Time) bool {
	s.stateLock.Lock()
	text := CountdownPlaceholder
	if s.current != nil {
		text = weather.SnapshotCountdown(*s.current, now).String()
	}
	if text == s.lastCountdown {
		s.stateLock.Unlock()
		return false
	}
	s.lastCountdown = text
	s.stateLock.Unlock()

	s.renderer.Countdown(text)
	return true
}
