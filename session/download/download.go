package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Handle streams body into destPath. contentLength is checked against the
// bytes written when it is >= 0; pass -1 when body has been decoded.
//
// The file is opened only once Handle is called, so callers validate the
// response before calling it. Without WithAtomic a failed copy leaves the
// partial file on disk.
func Handle(ctx context.Context, body io.Reader, contentLength int64, destPath string, logger *slog.Logger, optFns ...Option) error {
	opts, err := apply(optFns)
	if err != nil {
		return fmt.Errorf("applying option: %w", err)
	}

	body = &contextReader{ctx: ctx, r: body}

	file, err := open(destPath, opts.atomic)
	if err != nil {
		return err
	}

	var successful bool
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Error("defer closing file", "path", file.Name(), "error", err)
		}
		if !successful && opts.atomic {
			if err := os.Remove(file.Name()); err != nil {
				logger.Error("failed to remove temp file", "error", err)
			}
		}
	}()

	var writer io.Writer = file
	if opts.checksum != nil {
		writer = io.MultiWriter(writer, opts.checksum)
	}

	if opts.progress {
		writer = &progressWriter{
			w:         writer,
			logger:    logger,
			path:      destPath,
			total:     contentLength,
			startTime: time.Now(),
		}
	}

	n, err := io.Copy(writer, body)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: %w", ErrDownloadCancelled, err)
		}

		return fmt.Errorf("copying file body: %w", err)
	}

	if contentLength >= 0 && n != contentLength {
		return &Error{
			Err:    ErrContentLengthMismatch,
			Detail: fmt.Sprintf("expected %d bytes, got %d", contentLength, n),
		}
	}

	if err := opts.checksum.Verify(); err != nil {
		return err
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("syncing file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}
	if opts.atomic {
		if err := os.Rename(file.Name(), destPath); err != nil {
			return fmt.Errorf("renaming temp file: %w", err)
		}
	}

	successful = true

	return nil
}

func open(destPath string, atomic bool) (*os.File, error) {
	if atomic {
		file, err := os.CreateTemp(filepath.Dir(destPath), ".qscraper-dl-*")
		if err != nil {
			return nil, fmt.Errorf("creating temp file: %w", err)
		}
		return file, nil
	}

	file, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening destination: %w", err)
	}

	return file, nil
}

// contextReader fails reads once ctx is done, so a stalled copy can be
// abandoned between chunks.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
