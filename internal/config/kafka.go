package config

import "time"

type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES,required" envSeparator:","`
	ClientID  string   `env:"KAFKA_CLIENT_ID" envDefault:"shelflife"`
	// Group is only used by the event consumer.
	Group string `env:"KAFKA_GROUP" envDefault:"shelflife-events"`

	ProduceTimeout time.Duration `env:"KAFKA_PRODUCE_TIMEOUT" envDefault:"10s"`
}
