// Package core defines sentinel errors.
package core

import "errors"

// Sentinel errors. Callers test them with errors.Is; wrapping adds context.
var (
	// Packet decoding errors
	ErrTruncated = errors.New("netvis: packet truncated")
	ErrMalformed = errors.New("netvis: malformed header")
	ErrAbsent    = errors.New("netvis: protocol not present")

	// Capture errors
	ErrOpenFailed     = errors.New("netvis: capture open failed")
	ErrFatalRead      = errors.New("netvis: fatal capture read")
	ErrWouldBlock     = errors.New("netvis: read timeout")
	ErrAlreadyStarted = errors.New("netvis: capture already started")
	ErrNotStopped     = errors.New("netvis: capture not stopped")

	// Aggregation errors
	ErrEmptyInput = errors.New("netvis: empty input")

	// Configuration errors
	ErrConfigInvalid = errors.New("netvis: invalid configuration")
)

// IsDecodeError reports whether err came from a protocol decoder.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrTruncated) || errors.Is(err, ErrMalformed) || errors.Is(err, ErrAbsent)
}
