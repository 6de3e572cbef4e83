package core

import (
	"errors"
	"fmt"
)

var (
	// ErrReference marks a row that names an entity which does not exist.
	ErrReference = errors.New("unresolved reference")

	// ErrMalformedRow marks a row that cannot be interpreted at all.
	ErrMalformedRow = errors.New("malformed row")

	// ErrParse marks a mandatory numeric field holding a non-numeric value.
	ErrParse = errors.New("parse error")

	// ErrConfiguration marks a missing run-level default such as the
	// reference currency.
	ErrConfiguration = errors.New("configuration error")

	// ErrConsistency marks derived indexes that cannot be traced back to the
	// entity graph. This indicates a bug, not bad input.
	ErrConsistency = errors.New("internal consistency error")
)

// ParseError describes a mandatory numeric cell that could not be parsed.
type ParseError struct {
	Table  string
	File   string
	Line   int
	Column int
	Value  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s line %d column %d: invalid number %q",
		e.File, e.Line, e.Column, e.Value)
}

// Unwrap lets errors.Is match ErrParse.
func (e *ParseError) Unwrap() error {
	return ErrParse
}
