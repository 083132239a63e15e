package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrInvalidSignature indicates the signature bytes are not valid text.
	ErrInvalidSignature = errors.New("format: signature is not valid text")
)
