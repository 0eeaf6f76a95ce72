// Package qerr defines the structured error kinds the CLI maps to exit
// codes.
package qerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for exit-code mapping.
type Kind int

const (
	// ErrIO covers file-not-found and other filesystem failures.
	ErrIO Kind = iota
	// ErrParse covers malformed input syntax.
	ErrParse
	// ErrSemantic covers input that parses but violates a modeling
	// constraint (e.g. a qubit used by conflicting rotation axes).
	ErrSemantic
	// ErrInternal covers invariant violations inside the optimizer
	// itself — these should never surface from well-formed input, and
	// indicate a bug rather than a bad program.
	ErrInternal
	// ErrUsage covers missing or malformed command-line invocation —
	// a required flag left unset, or help explicitly requested. The
	// program never got far enough to touch a file.
	ErrUsage
)

func (k Kind) String() string {
	switch k {
	case ErrIO:
		return "io"
	case ErrParse:
		return "parse"
	case ErrSemantic:
		return "semantic"
	case ErrInternal:
		return "internal"
	case ErrUsage:
		return "usage"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind for exit-code mapping.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Wrap tags err with kind. Returns nil if err is nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// Parsef builds a formatted error of the given kind.
func Parsef(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// ExitCode maps err to the process exit code: 0 on success, 1 for a
// usage mistake (missing required flag, help requested), -1 for IO,
// parse, or semantic failures reported during synthesis. Internal
// errors also map to -1. An error that was never
// wrapped with a Kind is treated as internal, not usage — it reflects
// a programming omission somewhere upstream, not a bad invocation.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var qe *Error
	if errors.As(err, &qe) && qe.Kind == ErrUsage {
		return 1
	}
	return -1
}

// KindOf extracts the Kind from err, defaulting to ErrInternal for
// errors that were never wrapped (a programming omission, not a user
// error, but still worth surfacing rather than panicking).
func KindOf(err error) Kind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ErrInternal
}
