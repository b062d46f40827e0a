package config

import (
	"errors"
	"time"
)

type Sweep struct {
	Enabled  bool          `env:"SWEEP_ENABLED" envDefault:"true"`
	Interval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
}

func (s Sweep) Validate() error {
	if s.Enabled && s.Interval <= 0 {
		return errors.New("SWEEP_INTERVAL must be positive when the sweep is enabled")
	}
	return nil
}
