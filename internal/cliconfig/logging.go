package cliconfig

import (
	"github.com/rs/zerolog"

	"github.com/bft-labs/petship/pkg/log"
)

// Logger returns the console logger for the CLI. Verbose lowers the level
// from info to debug.
func Logger(verbose bool) *log.ZerologAdapter {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return log.NewZerologAdapter(level)
}
