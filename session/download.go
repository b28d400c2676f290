package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/andrearampin/qscraper/session/decode"
	"github.com/andrearampin/qscraper/session/download"
	"github.com/andrearampin/qscraper/session/future"
)

// Download streams the body of uri into a file and resolves with the
// path written. dest may be empty (the last URI path segment is used), an
// existing directory (the segment is joined to it) or a file path.
//
// 303 responses are not followed. A non-200 response is rejected with
// [UnexpectedStatusError] before anything is written. A compressed body is
// decoded on the way to disk.
func (s *Session) Download(ctx context.Context, uri, dest string, opts ...DownloadOption) *future.Future[string] {
	if err := download.Apply(opts...); err != nil {
		return future.Reject[string](fmt.Errorf("applying download option: %w", err))
	}

	path, err := download.Destination(uri, dest)
	if err != nil {
		return future.Reject[string](err)
	}

	d := s.describe(http.MethodGet, uri, nil)

	return submit(s, ctx, func(ctx context.Context) (string, error) {
		if download.ShouldSkip(path, opts...) {
			s.logger.Info("skipping existing file", "path", path)
			return path, nil
		}

		if err := s.stream(ctx, d, path, opts); err != nil {
			return "", err
		}
		return path, nil
	})
}

func (s *Session) stream(ctx context.Context, d descriptor, path string, opts []DownloadOption) (err error) {
	s.logger.Info("download", "uri", d.uri, "path", path)

	ctx, span := s.startSpan(ctx, d)
	var status int
	defer func() {
		endSpan(span, status, err)
	}()

	resp, err := s.do(ctx, d)
	if err != nil {
		return err
	}
	status = resp.StatusCode

	defer func() {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrBodySize))
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Error("failed to close response body", "error", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		s.logger.Warn("unexpected status", "method", d.method, "uri", d.uri, "status", resp.StatusCode)
		return statusError(resp.StatusCode, string(body))
	}

	encoding := decode.Normalize(resp.Header.Get("Content-Encoding"))
	raw := &transportReader{r: resp.Body, method: d.method, uri: d.uri}

	body, err := decode.NewReader(encoding, raw)
	if err != nil {
		if cerr := classify(err, encoding); cerr != nil {
			return cerr
		}
		return err
	}
	defer body.Close()

	// Content-Length describes the encoded bytes, not what lands on disk.
	contentLength := resp.ContentLength
	if encoding != "" {
		contentLength = -1
	}

	if err := download.Handle(ctx, body, contentLength, path, s.logger, opts...); err != nil {
		if errors.Is(err, download.ErrDownloadCancelled) {
			return err
		}
		if cerr := classify(err, encoding); cerr != nil {
			return cerr
		}
		return fmt.Errorf("downloading %s: %w", d.uri, err)
	}

	return nil
}

// classify reports a failed body read as a [TransportError] and malformed
// compressed data as a [DecodeError]. It returns nil for anything else.
func classify(err error, encoding string) error {
	var trErr *TransportError
	if errors.As(err, &trErr) {
		return trErr
	}

	var decErr *DecodeError
	if errors.As(err, &decErr) {
		return decErr
	}

	if encoding != "" && decode.IsCorrupt(err) {
		return &DecodeError{Encoding: encoding, Err: err}
	}

	return nil
}

// transportReader tags errors of the response body, so a connection cut
// mid-stream is not mistaken for a truncated compressed stream.
type transportReader struct {
	r      io.Reader
	method string
	uri    string
}

func (tr *transportReader) Read(p []byte) (int, error) {
	n, err := tr.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		err = &TransportError{Method: tr.method, URL: tr.uri, Err: err}
	}
	return n, err
}
