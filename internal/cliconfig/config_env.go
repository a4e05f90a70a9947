package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (PETSHIP_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("device", os.Getenv("PETSHIP_DEVICE"), &cfg.Device)
	s.setString("transport", os.Getenv("PETSHIP_TRANSPORT"), &cfg.Transport)
	s.setString("port", os.Getenv("PETSHIP_PORT"), &cfg.Port)
	s.setString("header-format", os.Getenv("PETSHIP_HEADER_FORMAT"), &cfg.HeaderFormat)

	if err := s.setIntFromString("baud", os.Getenv("PETSHIP_BAUD"), &cfg.Baud); err != nil {
		return err
	}
	if err := s.setIntFromString("channel", os.Getenv("PETSHIP_CHANNEL"), &cfg.Channel); err != nil {
		return err
	}

	if err := s.setDuration("write-timeout", os.Getenv("PETSHIP_WRITE_TIMEOUT"), &cfg.WriteTimeout); err != nil {
		return err
	}
	if err := s.setDuration("read-timeout", os.Getenv("PETSHIP_READ_TIMEOUT"), &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("PETSHIP_DEBOUNCE_DELAY"), &cfg.DebounceDelay); err != nil {
		return err
	}

	s.setBoolFromString("verbose", os.Getenv("PETSHIP_VERBOSE"), &cfg.Verbose)

	return nil
}
