package config

import (
	"fmt"
	"time"

	"github.com/conn-castle/expofast/internal/messages"
)

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf(messages.ConfigDurationFmt, string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText renders d as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}
