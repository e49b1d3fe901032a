package services

import (
	"time"

	"github.com/comitanigiacomo/kanso-habits/internal/core/analytics"
)

// Clock decides what "today" is for the services.
type Clock interface {
	Today() time.Time
}

// ZoneClock reports the current calendar day in a fixed location.
type ZoneClock struct {
	Location *time.Location
	Now      func() time.Time
}

func NewZoneClock(loc *time.Location) ZoneClock {
	if loc == nil {
		loc = time.UTC
	}
	return ZoneClock{Location: loc, Now: time.Now}
}

func (c ZoneClock) Today() time.Time {
	now := c.Now
	if now == nil {
		now = time.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return analytics.Day(now().In(loc))
}

// FixedClock always reports the same day. Useful in tests and the CLI --today flag.
type FixedClock time.Time

func (c FixedClock) Today() time.Time {
	return analytics.Day(time.Time(c))
}
