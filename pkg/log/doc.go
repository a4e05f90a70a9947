// Package log provides the logging abstraction used across petship.
//
// This package defines a Logger interface that can be implemented by
// any logging library. A zerolog adapter and a no-op logger are provided.
//
// # Usage
//
// Use the zerolog adapter with console output on stderr:
//
//	logger := log.NewZerologAdapter(zerolog.InfoLevel)
//
// Or wrap an existing zerolog.Logger:
//
//	logger := log.NewZerologAdapterWithLogger(zl)
//
// Use the no-op logger for tests and library callers that want silence:
//
//	logger := log.Discard
//
// Bind fields that every message of a unit of work should carry:
//
//	sessionLog := log.With(logger, log.String("session", id))
package log
