// Package errs defines the error-kind taxonomy the driver maps to process
// exit codes, and the sentinel values every collaborator wraps its failures
// in with github.com/pkg/errors so the original cause survives alongside a
// classification the driver can switch on.
package errs

import "github.com/pkg/errors"

// Kind classifies a failure for exit-code mapping and diagnostic framing.
type Kind int

const (
	FileNotFound Kind = iota
	IOError
	InvalidJSON
	InvalidScene
	OutOfMemory
	LegacyFormat
	DataTooShort
	UnknownFormat
	UnsupportedExtension
	AlreadyCompressed
	DummyBuffers
	ExternalToolMissing
	ExternalToolFailed
	OutputWriteFailed
)

// Error pairs a Kind with the wrapped cause.
type Error struct {
	Kind  Kind
	Cause error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

func (k Kind) String() string {
	switch k {
	case FileNotFound:
		return "file not found"
	case IOError:
		return "i/o error"
	case InvalidJSON:
		return "invalid json"
	case InvalidScene:
		return "invalid scene"
	case OutOfMemory:
		return "out of memory"
	case LegacyFormat:
		return "unsupported legacy format"
	case DataTooShort:
		return "data too short"
	case UnknownFormat:
		return "unknown format"
	case UnsupportedExtension:
		return "unsupported extension"
	case AlreadyCompressed:
		return "already compressed"
	case DummyBuffers:
		return "dummy buffers"
	case ExternalToolMissing:
		return "external tool missing"
	case ExternalToolFailed:
		return "external tool failed"
	case OutputWriteFailed:
		return "output write failed"
	default:
		return "unknown error"
	}
}

// Wrap annotates cause with kind, preserving it for errors.Is/As and
// unwrapping.
func Wrap(kind Kind, cause error, message string) error {
	return &Error{Kind: kind, Cause: errors.Wrap(cause, message)}
}

// New creates a bare Error of kind with no wrapped cause.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Cause: errors.New(message)}
}

// ExitCode maps err to the process exit status the driver returns: 1 for CLI
// usage errors, 2 for input load failures, 3 for a missing/failing external
// transcoder, 4 for output write failures. Errors not produced by this
// package map to a generic failure code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		switch e.Kind {
		case FileNotFound, DataTooShort, UnknownFormat, InvalidJSON, InvalidScene,
			LegacyFormat, UnsupportedExtension, AlreadyCompressed, DummyBuffers, OutOfMemory:
			return 2
		case ExternalToolMissing, ExternalToolFailed:
			return 3
		case OutputWriteFailed, IOError:
			return 4
		}
	}
	return 1
}
