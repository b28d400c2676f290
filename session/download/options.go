package download

import (
	"errors"
	"hash"
	"os"
)

// Option defines optional settings for downloading files.
type Option func(*options) error

type options struct {
	checksum     *checksumVerifier
	progress     bool
	skipExisting bool
	atomic       bool
}

// WithChecksum enables checksum validation of the downloaded file.
// h is a hash.Hash instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string. The checksum covers the decoded
// bytes, i.e. what lands on disk.
func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}

		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}

		opts.checksum = &checksumVerifier{hash: h, expected: expected}
		return nil
	}
}

// WithProgress enables periodic download progress logging via the
// logger supplied to Handle.
func WithProgress() Option {
	return func(opts *options) error {
		opts.progress = true
		return nil
	}
}

// WithSkipExisting marks a download to be skipped when the destination
// file already exists. Handle does not look at it: callers check
// [ShouldSkip] before issuing the request.
func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}

// WithAtomic streams into a temp file next to the destination and renames
// it into place on success. On failure the temp file is removed and the
// destination is untouched.
func WithAtomic() Option {
	return func(opts *options) error {
		opts.atomic = true
		return nil
	}
}

// Apply evaluates optFns, reporting the first invalid option.
func Apply(optFns ...Option) error {
	_, err := apply(optFns)
	return err
}

func apply(optFns []Option) (options, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return options{}, err
		}
	}
	return opts, nil
}

// ShouldSkip reports whether optFns ask to skip an existing destination
// and destPath exists.
func ShouldSkip(destPath string, optFns ...Option) bool {
	opts, err := apply(optFns)
	if err != nil || !opts.skipExisting {
		return false
	}

	_, err = os.Stat(destPath)
	return err == nil
}
