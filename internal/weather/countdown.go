// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"fmt"
	"time"
)

const (
	LabelSunrise     = "Sunrise in"
	LabelSunset      = "Sunset in"
	LabelNextSunrise = "Next sunrise in"
)

// Countdown is the time left until the next sunrise or sunset.
type Countdown struct {
	Label string
	Delta time.Duration
}

// NewCountdown computes the countdown from sunrise and sunset, both taken in the time zone
// of the given UTC offset, relative to now. Past sunset it counts towards the next sunrise,
// assumed to be a whole number of days after the given sunrise, so a stale sunrise never
// yields a negative countdown.
func NewCountdown(sunrise, sunset time.Time, utcOffset int, now time.Time) Countdown {
	zone := time.FixedZone("", utcOffset)
	sunrise, sunset, now = sunrise.In(zone), sunset.In(zone), now.In(zone)

	switch {
	case now.Before(sunrise):
		return Countdown{Label: LabelSunrise, Delta: sunrise.Sub(now)}
	case now.Before(sunset):
		return Countdown{Label: LabelSunset, Delta: sunset.Sub(now)}
	default:
		next := sunrise.Add(24 * time.Hour)
		for next.Before(now) {
			next = next.Add(24 * time.Hour)
		}
		return Countdown{Label: LabelNextSunrise, Delta: next.Sub(now)}
	}
}

// SnapshotCountdown computes the countdown for the sunrise and sunset of a snapshot.
func SnapshotCountdown(s Snapshot, now time.Time) Countdown {
	return NewCountdown(s.Sunrise, s.Sunset, s.UTCOffsetSeconds, now)
}

// Hours returns the full hours of the delta.
func (c Countdown) Hours() int {
	return int(c.Delta.Seconds()) / 3600
}

// Minutes returns the full minutes of the delta that exceed Hours. Seconds are truncated.
func (c Countdown) Minutes() int {
	return int(c.Delta.Seconds()) % 3600 / 60
}

func (c Countdown) String() string {
	return fmt.Sprintf("%s %dh %dm", c.Label, c.Hours(), c.Minutes())
}
