package session

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/andrearampin/qscraper/session/decode"
	"github.com/andrearampin/qscraper/session/future"
	"github.com/andrearampin/qscraper/session/jsonrepair"
)

// maxErrBodySize caps the amount of a streamed response body read when
// building an error for an unexpected status code. Buffered calls keep
// the whole body since they have already read it.
const maxErrBodySize = 4 << 10 // 4KB

var (
	// ErrTransport is matched by [TransportError].
	ErrTransport = errors.New("transport failure")
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrAuthFailure is joined with [ErrUnexpectedStatusCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
	// ErrInvalidHeader is wrapped by [HeaderError].
	ErrInvalidHeader = errors.New("invalid header")
	// ErrNotImplemented is wrapped by [NotImplementedError].
	ErrNotImplemented = errors.New("not implemented")
	// ErrRedirectLoop is wrapped by [RedirectLoopError].
	ErrRedirectLoop = errors.New("too many redirects")
	// ErrClosed is returned for calls issued after [Session.Close].
	ErrClosed = future.ErrGroupShutdown

	ErrDecode = decode.ErrDecode
	ErrParse  = jsonrepair.ErrParse
)

type (
	// DecodeError reports a compressed body that failed to inflate.
	DecodeError = decode.Error

	// ParseError reports a body that is not valid JSON or HTML.
	ParseError = jsonrepair.ParseError
)

// TransportError is returned when no response could be obtained (bad URI,
// DNS, connection or socket failures) or the connection failed while the
// body was being read.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%v: %s %s: %v", ErrTransport, e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// UnexpectedStatusError is returned when the HTTP response status code
// is not 200 and was not resolved as a redirect.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

func statusError(code int, body string) *UnexpectedStatusError {
	err := ErrUnexpectedStatusCode
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		err = fmt.Errorf("%w: %w", ErrAuthFailure, ErrUnexpectedStatusCode)
	}

	return &UnexpectedStatusError{
		StatusCode: code,
		Body:       body,
		Err:        err,
	}
}

// HeaderError is returned when a header name or value is not a valid
// HTTP token.
type HeaderError struct {
	Key   string
	Value string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("%v: %q: %q", ErrInvalidHeader, e.Key, e.Value)
}

func (e *HeaderError) Unwrap() error {
	return ErrInvalidHeader
}

// NotImplementedError is returned by operations that are part of the
// [Scraper] surface but have no behaviour yet.
type NotImplementedError struct {
	Op string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s() has not been implemented yet", e.Op)
}

func (e *NotImplementedError) Unwrap() error {
	return ErrNotImplemented
}

// RedirectLoopError is returned when a chain of 303 responses is longer
// than the session's redirect limit.
type RedirectLoopError struct {
	Hops     int
	Location string
}

func (e *RedirectLoopError) Error() string {
	return fmt.Sprintf("%v: stopped after %d hops, next location %s", ErrRedirectLoop, e.Hops, e.Location)
}

func (e *RedirectLoopError) Unwrap() error {
	return ErrRedirectLoop
}
