package config

import (
	"fmt"
	"log/slog"
	"strings"
)

type Log struct {
	Format    LogFormat  `env:"LOG_FORMAT" envDefault:"JSON"`
	Level     slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	AddSource bool       `env:"LOG_ADD_SOURCE" envDefault:"false"`
}

// LogFormat selects the slog handler: JSON for machines, TEXT for terminals.
type LogFormat string

const (
	LogFormatJSON LogFormat = "JSON"
	LogFormatText LogFormat = "TEXT"
)

func (f LogFormat) String() string {
	return string(f)
}

// UnmarshalText implements [encoding.TextUnmarshaler]. Matching is case-insensitive.
func (f *LogFormat) UnmarshalText(text []byte) error {
	switch format := LogFormat(strings.ToUpper(strings.TrimSpace(string(text)))); format {
	case LogFormatJSON, LogFormatText:
		*f = format
		return nil
	default:
		return fmt.Errorf("unknown log format: %q", text)
	}
}
