package ports

import "github.com/bft-labs/petship/pkg/log"

// Logger is the structured logger used by the application layer.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field

// With binds fields to every message written through a logger.
var With = log.With

// Field constructors, re-exported so the application layer imports one package.
var (
	String   = log.String
	Int      = log.Int
	Hex16    = log.Hex16
	Bool     = log.Bool
	Duration = log.Duration
	Err      = log.Err
)
