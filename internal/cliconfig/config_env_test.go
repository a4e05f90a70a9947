package cliconfig

import (
	"testing"
	"time"

	"github.com/bft-labs/petship/pkg/petship"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		changed  map[string]bool
		initial  Config
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all valid env vars",
			envVars: map[string]string{
				"PETSHIP_DEVICE":        "9",
				"PETSHIP_TRANSPORT":     "dump",
				"PETSHIP_PORT":          "/dev/ttyACM0",
				"PETSHIP_BAUD":          "57600",
				"PETSHIP_CHANNEL":       "0",
				"PETSHIP_HEADER_FORMAT": "3",
				"PETSHIP_WRITE_TIMEOUT": "10s",
				"PETSHIP_VERBOSE":       "1",
			},
			changed: map[string]bool{},
			initial: Config{Channel: 15},
			expected: Config{
				Device:       "9",
				Transport:    "dump",
				Port:         "/dev/ttyACM0",
				Baud:         57600,
				Channel:      0,
				HeaderFormat: "3",
				WriteTimeout: 10 * time.Second,
				Verbose:      true,
			},
		},
		{
			name: "respects changed flags",
			envVars: map[string]string{
				"PETSHIP_DEVICE": "9",
				"PETSHIP_PORT":   "/dev/ttyACM0",
			},
			changed: map[string]bool{"device": true},
			initial: Config{Device: "4"},
			expected: Config{
				Device: "4",
				Port:   "/dev/ttyACM0",
			},
		},
		{
			name:    "returns error for invalid duration",
			envVars: map[string]string{"PETSHIP_READ_TIMEOUT": "not-a-duration"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "returns error for invalid int",
			envVars: map[string]string{"PETSHIP_BAUD": "fast"},
			changed: map[string]bool{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg := tt.initial
			err := ApplyEnvConfig(&cfg, tt.changed)

			if tt.wantErr && err == nil {
				t.Error("ApplyEnvConfig() expected error but got nil")
				return
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ApplyEnvConfig() unexpected error: %v", err)
				return
			}

			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("ApplyEnvConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

// Integration test: precedence order (CLI > Env > File)
func TestConfigPrecedence(t *testing.T) {
	trueVal := true

	fileConf := FileConfig{
		Device:  "8",
		Port:    "/dev/file",
		Baud:    9600,
		Verbose: &trueVal,
	}

	t.Setenv("PETSHIP_DEVICE", "9")
	t.Setenv("PETSHIP_PORT", "/dev/env")

	// Simulate CLI flags
	changed := map[string]bool{
		"device": true,
	}

	cfg := DefaultConfig()
	cfg.Device = "10" // set by --device

	if err := ApplyFileConfig(&cfg, fileConf, changed); err != nil {
		t.Fatalf("ApplyFileConfig failed: %v", err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig failed: %v", err)
	}

	if cfg.Device != "10" {
		t.Errorf("Device = %v, want 10 (CLI should win)", cfg.Device)
	}
	if cfg.Port != "/dev/env" {
		t.Errorf("Port = %v, want /dev/env (env should override file)", cfg.Port)
	}
	if cfg.Baud != 9600 {
		t.Errorf("Baud = %v, want 9600 (file should set)", cfg.Baud)
	}
	if !cfg.Verbose {
		t.Errorf("Verbose = %v, want true (file should set)", cfg.Verbose)
	}
	if cfg.Channel != petship.DefaultConfig().Channel {
		t.Errorf("Channel = %v, want default %d", cfg.Channel, petship.DefaultConfig().Channel)
	}
}
