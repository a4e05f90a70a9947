package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bft-labs/petship/pkg/petship"
)

// execute runs the root command with args and returns the dump output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	var out bytes.Buffer
	c := newCLI()
	c.out = &out
	root := c.command()
	root.SetArgs(append([]string{"--config", filepath.Join(dir, "none.toml")}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommand_DumpLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.prg")
	if err := os.WriteFile(path, []byte{0x01, 0x04, 0xA9, 0x00, 0x60}, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--transport", "dump", "--load", path)
	if err != nil {
		t.Fatalf("execute error = %v", err)
	}
	for _, want := range []string{"initialize\n", "listen 30\n", "write frame 1: 5 bytes\n", "write frame 2: 3 bytes\n", "unlisten\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCommand_DumpExecute(t *testing.T) {
	out, err := execute(t, "--transport", "dump", "-d", "8", "--execute", "--addr", "0400")
	if err != nil {
		t.Fatalf("execute error = %v", err)
	}
	if !strings.Contains(out, "listen 8\nwrite frame 1: 3 bytes\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantIs  error
		wantMsg string
	}{
		{
			name:   "run with address is reported before the missing port",
			args:   []string{"--run", "--addr", "1234"},
			wantIs: petship.ErrCommand,
		},
		{
			name:   "device out of range",
			args:   []string{"--transport", "dump", "-d", "31", "--run"},
			wantIs: petship.ErrInvalidDevice,
		},
		{
			name:   "watch without load",
			args:   []string{"--transport", "dump", "--watch", "--execute", "--addr", "0400"},
			wantIs: petship.ErrCommand,
		},
		{
			name:   "missing file",
			args:   []string{"--transport", "dump", "--load", "/nonexistent/game.prg"},
			wantIs: petship.ErrFileNotFound,
		},
		{
			name:    "prologix without port",
			args:    []string{"--run"},
			wantMsg: "port is required",
		},
		{
			name:    "no operation",
			args:    []string{"--transport", "dump"},
			wantMsg: "at least one of the flags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("execute succeeded, want error")
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("error = %v, want %v", err, tt.wantIs)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantMsg)
			}
			if out != "" {
				t.Errorf("bus was used on error:\n%s", out)
			}
		})
	}
}
