package download

import (
	"errors"
	"fmt"
)

var (
	ErrContentLengthMismatch = errors.New("content length mismatch")
	ErrChecksumMismatch      = errors.New("checksum mismatch")
	ErrDownloadCancelled     = errors.New("download cancelled")
	ErrNoFilename            = errors.New("filename not given and cannot determine base name")
)

// Error wraps a sentinel error with additional detail.
type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FilenameError is returned when no destination was given and none can be
// derived from the URI.
type FilenameError struct {
	URI string
}

func (e *FilenameError) Error() string {
	return fmt.Sprintf("%v: %s", ErrNoFilename, e.URI)
}

func (e *FilenameError) Unwrap() error {
	return ErrNoFilename
}
