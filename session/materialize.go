package session

import (
	"context"
	"io"
	"net/http"

	"github.com/andrearampin/qscraper/session/decode"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// startSpan opens the client span covering one request hop.
func (s *Session) startSpan(ctx context.Context, d descriptor) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "qscraper."+d.method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", d.method),
			attribute.String("url.full", d.uri),
			attribute.String("qscraper.session", s.id),
		),
	)
}

func endSpan(span trace.Span, status int, err error) {
	if status > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// do issues d and returns the response with its body still open.
func (s *Session) do(ctx context.Context, d descriptor) (*http.Response, error) {
	req, err := d.request(ctx)
	if err != nil {
		return nil, &TransportError{Method: d.method, URL: d.uri, Err: err}
	}

	resp, err := s.hc.Do(req)
	if err != nil {
		return nil, &TransportError{Method: d.method, URL: d.uri, Err: err}
	}

	return resp, nil
}

// exchange performs one hop of a buffered call and reads the whole body.
func (s *Session) exchange(ctx context.Context, d descriptor) (resp *http.Response, raw []byte, err error) {
	ctx, span := s.startSpan(ctx, d)
	defer func() {
		var status int
		if resp != nil {
			status = resp.StatusCode
		}
		endSpan(span, status, err)
	}()

	resp, err = s.do(ctx, d)
	if err != nil {
		return nil, nil, err
	}

	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Error("failed to close response body", "error", cerr)
		}
	}()

	raw, err = io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, &TransportError{Method: d.method, URL: d.uri, Err: err}
	}

	return resp, raw, nil
}

// fetch runs a buffered call to completion: 303 responses are followed
// against their Location, everything else must be 200.
func (s *Session) fetch(ctx context.Context, d descriptor) (string, error) {
	s.logger.Info("request", "method", d.method, "uri", d.uri)

	for hops := 0; ; hops++ {
		resp, raw, err := s.exchange(ctx, d)
		if err != nil {
			return "", err
		}

		if loc := resp.Header.Get("Location"); resp.StatusCode == http.StatusSeeOther && loc != "" {
			if hops >= s.maxRedirects {
				return "", &RedirectLoopError{Hops: hops, Location: loc}
			}

			next, err := resp.Request.URL.Parse(loc)
			if err != nil {
				return "", &TransportError{Method: d.method, URL: loc, Err: err}
			}

			s.logger.Debug("following redirect", "from", d.uri, "to", next.String(), "hop", hops+1)
			d.uri = next.String()
			continue
		}

		text, err := materialize(resp.Header, raw)
		if err != nil {
			return "", err
		}

		if resp.StatusCode != http.StatusOK {
			s.logger.Warn("unexpected status", "method", d.method, "uri", d.uri, "status", resp.StatusCode)
			return "", statusError(resp.StatusCode, text)
		}

		return text, nil
	}
}

// materialize decodes a buffered body per its Content-Encoding and
// Content-Type charset.
func materialize(header http.Header, raw []byte) (string, error) {
	b, err := decode.Bytes(header.Get("Content-Encoding"), raw)
	if err != nil {
		return "", err
	}

	return decode.Text(header.Get("Content-Type"), b)
}
