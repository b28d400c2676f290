package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"slices"
	"sync"

	"github.com/andrearampin/qscraper/session/future"
	"github.com/andrearampin/qscraper/session/throttle"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/http/httpguts"
	"golang.org/x/net/publicsuffix"
)

const instrumentationName = "github.com/andrearampin/qscraper/session"

// Session issues requests that share one configuration: base headers,
// session headers and an optional cookie jar. It is safe for concurrent
// use; calls issued concurrently settle in no particular order.
type Session struct {
	id     string
	hc     *http.Client
	logger *slog.Logger
	tracer trace.Tracer
	group  *future.Group

	maxRedirects  int
	useJSONNumber bool

	mu      sync.RWMutex
	headers http.Header
}

// Build creates a [Session] with the given options.
// If not specified, a copy of [http.DefaultClient] and its transport is used.
func Build(optFns ...Option) (*Session, error) {
	opts := options{
		limits: limits{MaxRedirects: DefaultMaxRedirects},
	}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying session option: %w", err)
		}
	}

	if err := validateLimits(opts.limits); err != nil {
		return nil, fmt.Errorf("validating session options: %w", err)
	}

	s := &Session{
		id:            uuid.NewString(),
		logger:        slog.Default(),
		group:         future.NewGroup(opts.limits.Concurrency),
		maxRedirects:  opts.limits.MaxRedirects,
		useJSONNumber: opts.useJSONNumber,
		headers:       make(http.Header),
	}

	if opts.logger != nil {
		s.logger = opts.logger
	}
	s.logger = s.logger.With("session", s.id)

	tp := opts.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	s.tracer = tp.Tracer(instrumentationName)

	hc := &http.Client{}
	if opts.client != nil {
		cpy := *opts.client
		hc = &cpy
	}

	if opts.timeout != nil {
		hc.Timeout = *opts.timeout
	}

	// 303 is resolved by the session itself, everything else is surfaced.
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, s.logger, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	hc.Transport = transport

	switch {
	case opts.jar != nil:
		hc.Jar = opts.jar
	case opts.cookies:
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		hc.Jar = jar
	}

	s.hc = hc

	if opts.userAgent != "" {
		s.headers.Set("User-Agent", opts.userAgent)
	}
	for k, v := range opts.headers {
		if err := s.setHeader(k, v); err != nil {
			return nil, fmt.Errorf("applying session headers: %w", err)
		}
	}

	return s, nil
}

// ID identifies the session in logs and spans.
func (s *Session) ID() string { return s.id }

// Jar returns the session's cookie jar, or nil for sessions without one.
func (s *Session) Jar() http.CookieJar { return s.hc.Jar }

// Headers returns a snapshot of the session headers, without the base
// headers they override.
func (s *Session) Headers() http.Header {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headers.Clone()
}

// Wait blocks until every call issued so far has settled and returns
// their errors joined.
func (s *Session) Wait() error {
	return s.group.Wait()
}

// Close stops the session from starting new calls; they are rejected
// with [ErrClosed]. Calls already running are not interrupted.
func (s *Session) Close() {
	s.group.Shutdown()
}

func (s *Session) setHeader(key, value string) error {
	if !httpguts.ValidHeaderFieldName(key) || !httpguts.ValidHeaderFieldValue(value) {
		return &HeaderError{Key: key, Value: value}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.headers.Set(key, value)

	return nil
}

// describe snapshots the merged configuration for one call: base headers,
// overridden by session headers, plus the per-call parameters.
func (s *Session) describe(method, uri string, params map[string][]string) descriptor {
	header := BaseHeaders()

	s.mu.RLock()
	for k, vs := range s.headers {
		header[k] = slices.Clone(vs)
	}
	s.mu.RUnlock()

	return descriptor{
		method: method,
		uri:    uri,
		params: params,
		header: header,
	}
}

// submit runs fn under the session's group.
func submit[T any](s *Session, ctx context.Context, fn future.WorkFunc[T]) *future.Future[T] {
	return future.Submit(s.group, ctx, fn)
}
