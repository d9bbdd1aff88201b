// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFinite indicates a NaN or infinite day count.
	ErrNotFinite = errors.New("value is not a finite number")

	// ErrOutOfRange indicates a day count outside MinDays..MaxDays.
	ErrOutOfRange = errors.New("value outside the supported date range")

	// ErrMissingField indicates a row too short to hold the target field.
	ErrMissingField = errors.New("row has no such field")
)

// ParseError reports a target field that could not be converted.
type ParseError struct {
	Line  int // 1-based input line of the field
	Field int // 0-based field index
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, field %d: cannot convert %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError reports a failure to open, read, or write a stream.
type IOError struct {
	Op   string // "open", "read", or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
