// Package errors defines the front-end and JIT error taxonomy: a small set
// of named failure kinds, each carrying the data needed to report it, and a
// shared rendering that underlines the offending source column.
package errors

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Kind names one of the taxonomy's failure modes.
type Kind string

const (
	UnmatchedOpen          Kind = "UnmatchedOpen"
	UnmatchedClose         Kind = "UnmatchedClose"
	UnsupportedPlatformJIT Kind = "UnsupportedPlatformJIT"
	NonASCIIChar           Kind = "NonASCIIChar"
)

// Location is a 1-based (line, column) pair into the source text.
type Location struct {
	Line   int
	Column int
}

// TapeError is the concrete error type returned by the front end and the
// JIT's initialization path.
type TapeError struct {
	Kind     Kind
	Message  string
	Location Location
	Source   string // the offending source line, if known
}

func (e *TapeError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s", e.Kind, e.Message))
	if e.Location.Line > 0 {
		sb.WriteString(fmt.Sprintf(" at %d:%d", e.Location.Line, e.Location.Column))
	}
	if e.Source != "" {
		sb.WriteString(fmt.Sprintf("\n  %d | %s\n", e.Location.Line, e.Source))
		prefix := fmt.Sprintf("  %d | ", e.Location.Line)
		sb.WriteString(strings.Repeat(" ", len(prefix)))
		if e.Location.Column > 0 {
			sb.WriteString(strings.Repeat(" ", e.Location.Column-1))
		}
		sb.WriteString("^")
	}
	return sb.String()
}

// WithSource attaches the offending source line for a richer rendering.
func (e *TapeError) WithSource(source string) *TapeError {
	e.Source = source
	return e
}

// NewUnmatchedOpen reports a `[` with no matching `]`.
func NewUnmatchedOpen(line, column int) *TapeError {
	return &TapeError{
		Kind:     UnmatchedOpen,
		Message:  "unmatched '['",
		Location: Location{Line: line, Column: column},
	}
}

// NewUnmatchedClose reports a `]` with no matching `[`.
func NewUnmatchedClose(line, column int) *TapeError {
	return &TapeError{
		Kind:     UnmatchedClose,
		Message:  "unmatched ']'",
		Location: Location{Line: line, Column: column},
	}
}

// NewUnsupportedPlatformJIT reports that the host ISA has no JIT backend.
func NewUnsupportedPlatformJIT() *TapeError {
	return &TapeError{
		Kind:    UnsupportedPlatformJIT,
		Message: "no JIT backend for this host architecture",
	}
}

// Wrap preserves a stack trace for an OS-level failure (a failed read, a
// failed mmap) that isn't itself a member of the named taxonomy above;
// those are expected, located, recoverable outcomes, and this is not.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return pkgerrors.Wrap(err, message)
}
