package domain

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind classifies a petship failure.
type Kind int

const (
	KindInvalidDevice Kind = iota + 1
	KindInvalidAddress
	KindFileNotFound
	KindFileReadError
	KindCommand
	KindTransport
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidDevice:
		return "invalid device (0-30)"
	case KindInvalidAddress:
		return "invalid address"
	case KindFileNotFound:
		return "file not found"
	case KindFileReadError:
		return "file read error"
	case KindCommand:
		return "command error"
	case KindTransport:
		return "transport error"
	default:
		return "unknown error"
	}
}

// Sentinel errors, one per Kind. Check them with errors.Is.
var (
	ErrInvalidDevice  = &Error{Kind: KindInvalidDevice}
	ErrInvalidAddress = &Error{Kind: KindInvalidAddress}
	ErrFileNotFound   = &Error{Kind: KindFileNotFound}
	ErrFileReadError  = &Error{Kind: KindFileReadError}
	ErrCommand        = &Error{Kind: KindCommand}
	ErrTransport      = &Error{Kind: KindTransport}
)

// Error is a typed petship failure. Every failure is terminal for the
// current invocation.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// CommandError returns a KindCommand error with a formatted message.
func CommandError(format string, args ...any) error {
	return &Error{Kind: KindCommand, Msg: fmt.Sprintf(format, args...)}
}

// TransportError wraps a bus failure. The step names the bus call that failed.
func TransportError(step string, err error) error {
	return &Error{Kind: KindTransport, Msg: step, Err: err}
}

// ClassifyReadError maps a file read failure to FileNotFound or FileReadError.
// Errors that are already classified pass through unchanged.
func ClassifyReadError(path string, err error) error {
	var classified *Error
	if errors.As(err, &classified) {
		return err
	}
	if errors.Is(err, fs.ErrNotExist) {
		return &Error{Kind: KindFileNotFound, Msg: path, Err: err}
	}
	return &Error{Kind: KindFileReadError, Msg: path, Err: err}
}
