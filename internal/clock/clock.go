// Package clock supplies the current instant in a fixed reference time zone,
// independent of the host's local zone.
package clock

import (
	"fmt"
	"time"
)

// Clock is the single source of the current instant.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

// Zone returns a fixed zone at the given offset from UTC, named like "UTC+08:00".
func Zone(offset time.Duration) *time.Location {
	sign := '+'
	abs := offset
	if offset < 0 {
		sign = '-'
		abs = -offset
	}
	name := fmt.Sprintf("UTC%c%02d:%02d", sign, int(abs.Hours()), int(abs.Minutes())%60)
	return time.FixedZone(name, int(offset.Seconds()))
}

type systemClock struct {
	loc *time.Location
}

// New returns a clock reading the system time, expressed in loc.
func New(loc *time.Location) Clock {
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c systemClock) Location() *time.Location {
	return c.loc
}

type fixedClock struct {
	t time.Time
}

// Fixed returns a clock that always reports t, in t's location.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

func (c fixedClock) Now() time.Time {
	return c.t
}

func (c fixedClock) Location() *time.Location {
	return c.t.Location()
}
