// SPDX-License-Identifier: Apache-2.0

package catalogue

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedBracket indicates a value(error) token that could not be decoded.
	ErrMalformedBracket = errors.New("malformed bracket notation")

	// ErrRowWidth indicates a row whose width does not match its header.
	ErrRowWidth = errors.New("row width mismatch")

	// ErrMalformedLine indicates a keyed data line without a value.
	ErrMalformedLine = errors.New("malformed data line")

	// ErrUnknownField indicates a key outside the record vocabulary. Seeing it
	// means the vocabulary was not built from the same input as the records.
	ErrUnknownField = errors.New("field not in vocabulary")
)

// ParseError locates a parse failure within a catalogue source.
type ParseError struct {
	Source string
	// Line is the 0-based line index, or -1 when not applicable.
	Line int
	// Index is the 0-based token position within the line, or -1.
	Index   int
	Token   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	loc := e.Source
	if loc == "" {
		loc = "input"
	}
	if e.Line >= 0 {
		loc = fmt.Sprintf("%s line %d", loc, e.Line)
	}
	if e.Index >= 0 {
		return fmt.Sprintf("parse error in %s, token %d %q: %s", loc, e.Index, e.Token, msg)
	}
	if e.Token != "" {
		return fmt.Sprintf("parse error in %s, token %q: %s", loc, e.Token, msg)
	}
	return fmt.Sprintf("parse error in %s: %s", loc, msg)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a ParseError with no line or token position.
func NewParseError(source, message string, err error) *ParseError {
	return &ParseError{Source: source, Line: -1, Index: -1, Message: message, Err: err}
}

// AtLine returns a copy of e located at the given line, filling the source
// when e has none.
func (e *ParseError) AtLine(source string, line int) *ParseError {
	cp := *e
	if cp.Source == "" {
		cp.Source = source
	}
	cp.Line = line
	return &cp
}
