package config

import (
	"fmt"
	"time"
)

// Clock configures the reference time zone all expiry dates are anchored to.
type Clock struct {
	UTCOffset time.Duration `env:"CLOCK_UTC_OFFSET" envDefault:"8h"`
}

func (c Clock) Validate() error {
	if c.UTCOffset < -12*time.Hour || c.UTCOffset > 14*time.Hour {
		return fmt.Errorf("CLOCK_UTC_OFFSET %s is outside [-12h, +14h]", c.UTCOffset)
	}
	if c.UTCOffset%time.Minute != 0 {
		return fmt.Errorf("CLOCK_UTC_OFFSET %s must be a whole number of minutes", c.UTCOffset)
	}
	return nil
}
