package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedGraph marks documents whose nodes and links do not form a
	// valid acyclic graph.
	ErrMalformedGraph = errors.New("malformed graph")
	// ErrUnsupportedVersion marks documents written in a format version other
	// than the supported one.
	ErrUnsupportedVersion = errors.New("unsupported workflow version")
)

// MalformedError describes a structural defect of a workflow document.
type MalformedError struct {
	Reason string
}

// Malformed builds a MalformedError from a format string.
func Malformed(format string, args ...any) error {
	return &MalformedError{Reason: fmt.Sprintf(format, args...)}
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedGraph, e.Reason)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformedGraph
}

// VersionError reports a format version mismatch.
type VersionError struct {
	Got  string
	Want string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%s: got %q, want %q", ErrUnsupportedVersion, e.Got, e.Want)
}

func (e *VersionError) Unwrap() error {
	return ErrUnsupportedVersion
}
