package types

import (
	"errors"
	"fmt"
)

var (
	// ErrIO matches every *IOError via errors.Is.
	ErrIO = errors.New("hive i/o error")
	// ErrParse matches every *ParseError via errors.Is.
	ErrParse = errors.New("hive header parse error")
)

// IOError reports a file that could not be opened, read or written.
type IOError struct {
	Op   string // "open", "read", "write", "backup", ...
	Path string
	Err  error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *IOError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrIO) true for any IOError.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// ParseError reports a header that could not be decoded: fewer than 512
// bytes, or a signature that is not valid text.
type ParseError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrParse) true for any ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
