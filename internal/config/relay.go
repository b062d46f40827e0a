package config

import (
	"errors"
	"time"
)

// Relay controls how the outbox is drained into Kafka.
type Relay struct {
	BatchSize uint32        `env:"RELAY_BATCH_SIZE" envDefault:"100"`
	Interval  time.Duration `env:"RELAY_INTERVAL" envDefault:"1s"`
}

func (r Relay) Validate() error {
	if r.BatchSize == 0 {
		return errors.New("RELAY_BATCH_SIZE must be positive")
	}
	if r.Interval <= 0 {
		return errors.New("RELAY_INTERVAL must be positive")
	}
	return nil
}
