package repair

import (
	"errors"
	"fmt"
)

// ErrBeyondEOF indicates a patch offset past the end of the file. Writing it
// would grow the file instead of correcting a header field.
var ErrBeyondEOF = errors.New("patch offset beyond end of file")

// PatchError reports a header field write that failed or was cut short.
type PatchError struct {
	Field  string // Header field being written, e.g. "hive bins size"
	Offset int64  // Absolute byte offset of the field
	Err    error  // Underlying error
}

// Error implements the error interface.
func (e *PatchError) Error() string {
	return fmt.Sprintf("patch %s at offset 0x%X: %v", e.Field, e.Offset, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *PatchError) Unwrap() error {
	return e.Err
}
