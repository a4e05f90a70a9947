package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bft-labs/petship/internal/domain"
	"github.com/bft-labs/petship/pkg/petship"
)

// Config holds CLI configuration for petship.
type Config struct {
	// Device is the raw device id; it is parsed by the domain layer so
	// the error carries the user's input.
	Device string

	Transport string
	Port      string
	Baud      int
	Channel   int

	HeaderFormat string

	WriteTimeout  time.Duration
	ReadTimeout   time.Duration
	DebounceDelay time.Duration

	Verbose bool
}

// DefaultConfig returns a Config with the library defaults.
func DefaultConfig() Config {
	lib := petship.DefaultConfig()
	return Config{
		Device:        strconv.Itoa(int(domain.DefaultDevice)),
		Transport:     lib.Transport,
		Baud:          lib.Baud,
		Channel:       lib.Channel,
		HeaderFormat:  lib.HeaderFormat.String(),
		WriteTimeout:  lib.WriteTimeout,
		ReadTimeout:   lib.ReadTimeout,
		DebounceDelay: lib.DebounceDelay,
	}
}

// Library converts c into the petship client configuration.
func (c *Config) Library() (petship.Config, error) {
	format, err := petship.ParseHeaderFormat(c.HeaderFormat)
	if err != nil {
		return petship.Config{}, err
	}
	return petship.Config{
		Transport:     c.Transport,
		Port:          c.Port,
		Baud:          c.Baud,
		Channel:       c.Channel,
		HeaderFormat:  format,
		ReadTimeout:   c.ReadTimeout,
		WriteTimeout:  c.WriteTimeout,
		DebounceDelay: c.DebounceDelay,
	}, nil
}

// Validate checks the configuration for errors. The CLI always uses a
// built-in transport, so a serial port is required for prologix.
func (c *Config) Validate() error {
	lib, err := c.Library()
	if err != nil {
		return err
	}
	if err := lib.Validate(); err != nil {
		return err
	}
	if c.Transport == petship.TransportPrologix && c.Port == "" {
		return fmt.Errorf("port is required for transport %q", c.Transport)
	}

	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout must be positive")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.DebounceDelay <= 0 {
		return fmt.Errorf("debounce delay must be positive")
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr sets an int value from a pointer if not nil and flag not changed.
// Zero is a valid value.
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Zero and negative values are stored too so Validate can reject them.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
