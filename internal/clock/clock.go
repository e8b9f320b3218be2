// Package clock formats timestamps for the reserved time variable, pinned
// to a validated IANA timezone.
package clock

import (
	"log/slog"
	"time"
)

// DefaultTimezone is used whenever a requested zone cannot be loaded.
const DefaultTimezone = "America/New_York"

// Format is the timestamp layout handed to prompt variables.
const Format = "2006-01-02T15:04:05"

// Clock produces formatted timestamps in a fixed zone.
type Clock struct {
	loc    *time.Location
	logger *slog.Logger
}

// New builds a Clock for tz, falling back to DefaultTimezone when the zone
// is unknown.
func New(tz string, logger *slog.Logger) *Clock {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		logger.Warn("invalid timezone, using default", "timezone", tz, "default", DefaultTimezone)
		loc, err = time.LoadLocation(DefaultTimezone)
		if err != nil {
			loc = time.UTC
		}
	}
	return &Clock{loc: loc, logger: logger}
}

// Zone returns the effective timezone name.
func (c *Clock) Zone() string {
	return c.loc.String()
}

// Now returns the current time formatted in the clock's zone.
func (c *Clock) Now() string {
	return time.Now().In(c.loc).Format(Format)
}

// NowIn returns the current time in tz, falling back to the clock's own
// zone when tz is unknown.
func (c *Clock) NowIn(tz string) string {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		c.logger.Warn("invalid timezone, using clock default", "timezone", tz)
		loc = c.loc
	}
	return time.Now().In(loc).Format(Format)
}
