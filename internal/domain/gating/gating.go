// Package gating decides whether an event still accepts predictions.
//
// The cutoff is the event's scheduled start: date plus start time in the
// event's timezone when a time is present, local midnight of the event
// date otherwise. The boundary is exclusive; at exactly the cutoff the
// event is closed. All functions are pure in (event, now) so boundary
// behavior is testable with a fixed clock.
package gating

import (
	"fmt"
	"time"

	"github.com/kohrong/pronosticos-mma/internal/domain/model"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"

	// DefaultZone applies when an event carries a start time but no
	// explicit timezone.
	DefaultZone = "America/New_York"
)

// Checker derives prediction cutoffs for events.
type Checker struct {
	local       *time.Location
	defaultZone string
}

// Option applies a configuration option to the Checker.
type Option func(*Checker)

// WithLocation overrides the zone used for date-only cutoffs. Defaults
// to the process-local zone.
func WithLocation(loc *time.Location) Option {
	return func(c *Checker) {
		if loc != nil {
			c.local = loc
		}
	}
}

// WithDefaultZone overrides the fallback zone applied to events that
// have a start time but no timezone of their own.
func WithDefaultZone(name string) Option {
	return func(c *Checker) {
		if name != "" {
			c.defaultZone = name
		}
	}
}

// New constructs a Checker with default configuration.
func New(opts ...Option) *Checker {
	c := &Checker{
		local:       time.Local,
		defaultZone: DefaultZone,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cutoff returns the instant at which ev stops accepting predictions.
func (c *Checker) Cutoff(ev model.Event) (time.Time, error) {
	if ev.Time == "" {
		t, err := time.ParseInLocation(dateLayout, ev.Date, c.local)
		if err != nil {
			return time.Time{}, fmt.Errorf("event %q: bad date %q: %w", ev.Name, ev.Date, err)
		}
		return t, nil
	}

	zone := ev.Timezone
	if zone == "" {
		zone = c.defaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("event %q: bad timezone %q: %w", ev.Name, zone, err)
	}
	t, err := time.ParseInLocation(dateTimeLayout, ev.Date+"T"+ev.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("event %q: bad start %q %q: %w", ev.Name, ev.Date, ev.Time, err)
	}
	return t, nil
}

// IsOpen reports whether ev accepts predictions at now. Events whose
// schedule cannot be parsed are treated as closed.
func (c *Checker) IsOpen(ev model.Event, now time.Time) bool {
	cutoff, err := c.Cutoff(ev)
	if err != nil {
		return false
	}
	return now.Before(cutoff)
}
