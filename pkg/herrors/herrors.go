// Package herrors defines the semantic error taxonomy shared by every core
// component. It mirrors the reference implementation's single ErrorCode
// enum, but expressed as a Go error that chains with errors.Is/errors.As
// and errors.Unwrap rather than a bare integer code.
package herrors

import (
	"errors"
	"fmt"
)

// Kind is one of the semantic error categories a core operation can fail
// with.
type Kind int

const (
	FileNotFound Kind = iota
	FileEmpty
	FileCreateError
	FileReadError
	FileWriteError
	InvalidFormat
	TreeSerializationError
	TreeDeserializationError
	CompressionFailed
	DecompressionFailed
	UnknownError
)

func (k Kind) String() string {
	switch k {
	case FileNotFound:
		return "file not found"
	case FileEmpty:
		return "input file is empty"
	case FileCreateError:
		return "could not create output file"
	case FileReadError:
		return "error reading from file"
	case FileWriteError:
		return "error writing to file"
	case InvalidFormat:
		return "invalid file format or corrupted data"
	case TreeSerializationError:
		return "failed to serialize huffman tree"
	case TreeDeserializationError:
		return "failed to deserialize huffman tree"
	case CompressionFailed:
		return "compression process failed"
	case DecompressionFailed:
		return "decompression process failed"
	default:
		return "unknown error"
	}
}

// Error wraps a Kind with the underlying cause, preserving errors.Unwrap
// chains through %w.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err under the given Kind. A nil err is legal and yields an
// Error whose message is just the Kind's description.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Newf is New with fmt.Errorf-style formatting for the cause.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Is reports whether err is, or wraps, an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the Kind of err if it is, or wraps, an *Error, and
// UnknownError otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return UnknownError
}
