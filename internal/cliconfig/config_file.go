package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Device        string `toml:"device"`
	Transport     string `toml:"transport"`
	Port          string `toml:"port"`
	Baud          int    `toml:"baud"`
	Channel       *int   `toml:"channel"`
	HeaderFormat  string `toml:"header_format"`
	WriteTimeout  string `toml:"write_timeout"`
	ReadTimeout   string `toml:"read_timeout"`
	DebounceDelay string `toml:"debounce_delay"`
	Verbose       *bool  `toml:"verbose"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.petship/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".petship", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("device", fc.Device, &cfg.Device)
	s.setString("transport", fc.Transport, &cfg.Transport)
	s.setString("port", fc.Port, &cfg.Port)
	s.setString("header-format", fc.HeaderFormat, &cfg.HeaderFormat)

	s.setInt("baud", fc.Baud, &cfg.Baud)
	s.setIntPtr("channel", fc.Channel, &cfg.Channel)

	if err := s.setDuration("write-timeout", fc.WriteTimeout, &cfg.WriteTimeout); err != nil {
		return err
	}
	if err := s.setDuration("read-timeout", fc.ReadTimeout, &cfg.ReadTimeout); err != nil {
		return err
	}
	if err := s.setDuration("debounce", fc.DebounceDelay, &cfg.DebounceDelay); err != nil {
		return err
	}

	s.setBool("verbose", fc.Verbose, &cfg.Verbose)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
