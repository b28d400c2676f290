package session

import (
	"context"
	"net/http"
	"net/url"

	"github.com/andrearampin/qscraper/session/future"
	"github.com/andrearampin/qscraper/session/jsonrepair"
)

// Scraper is the closed set of operations a [Session] offers. Every call
// returns immediately with a future that settles once the work is done.
type Scraper interface {
	Get(ctx context.Context, uri string, params url.Values) *future.Future[string]
	Post(ctx context.Context, uri string, params url.Values) *future.Future[string]
	GetDocument(ctx context.Context, uri string, params url.Values) *future.Future[*Document]
	PostDocument(ctx context.Context, uri string, params url.Values) *future.Future[*Document]
	GetJSON(ctx context.Context, uri string, params url.Values) *future.Future[any]
	PostJSON(ctx context.Context, uri string, params url.Values) *future.Future[any]
	Download(ctx context.Context, uri, dest string, opts ...DownloadOption) *future.Future[string]
	AddHeader(key, value string) *future.Future[struct{}]
	ClearCookies() *future.Future[struct{}]
	Debug() *future.Future[struct{}]
}

var _ Scraper = (*Session)(nil)

// Get fetches uri with params merged into its query string and resolves
// with the decoded body text.
func (s *Session) Get(ctx context.Context, uri string, params url.Values) *future.Future[string] {
	return call(s, ctx, http.MethodGet, uri, params, identity)
}

// Post sends params form-encoded to uri and resolves with the decoded
// body text.
func (s *Session) Post(ctx context.Context, uri string, params url.Values) *future.Future[string] {
	return call(s, ctx, http.MethodPost, uri, params, identity)
}

// GetDocument is [Session.Get] with the body parsed as HTML.
func (s *Session) GetDocument(ctx context.Context, uri string, params url.Values) *future.Future[*Document] {
	return call(s, ctx, http.MethodGet, uri, params, ParseDocument)
}

// PostDocument is [Session.Post] with the body parsed as HTML.
func (s *Session) PostDocument(ctx context.Context, uri string, params url.Values) *future.Future[*Document] {
	return call(s, ctx, http.MethodPost, uri, params, ParseDocument)
}

// GetJSON is [Session.Get] with the body repaired and decoded as JSON.
func (s *Session) GetJSON(ctx context.Context, uri string, params url.Values) *future.Future[any] {
	return GetJSONAs[any](ctx, s, uri, params)
}

// PostJSON is [Session.Post] with the body repaired and decoded as JSON.
func (s *Session) PostJSON(ctx context.Context, uri string, params url.Values) *future.Future[any] {
	return PostJSONAs[any](ctx, s, uri, params)
}

// GetJSONAs is [Session.GetJSON] decoding into T.
func GetJSONAs[T any](ctx context.Context, s *Session, uri string, params url.Values) *future.Future[T] {
	return call(s, ctx, http.MethodGet, uri, params, jsonDecoder[T](s.useJSONNumber))
}

// PostJSONAs is [Session.PostJSON] decoding into T.
func PostJSONAs[T any](ctx context.Context, s *Session, uri string, params url.Values) *future.Future[T] {
	return call(s, ctx, http.MethodPost, uri, params, jsonDecoder[T](s.useJSONNumber))
}

// AddHeader sets a session header sent with every later call. The returned
// future is already settled; it is rejected with [HeaderError] when key or
// value is not a valid HTTP header token.
func (s *Session) AddHeader(key, value string) *future.Future[struct{}] {
	if err := s.setHeader(key, value); err != nil {
		return future.Reject[struct{}](err)
	}
	return future.Resolve(struct{}{})
}

// ClearCookies is not implemented and always rejects with [NotImplementedError].
func (s *Session) ClearCookies() *future.Future[struct{}] {
	return future.Reject[struct{}](&NotImplementedError{Op: "ClearCookies"})
}

// Debug is not implemented and always rejects with [NotImplementedError].
func (s *Session) Debug() *future.Future[struct{}] {
	return future.Reject[struct{}](&NotImplementedError{Op: "Debug"})
}

// call runs a buffered call and its parse step as one unit of the
// session's group, so [Session.Wait] covers both.
func call[T any](s *Session, ctx context.Context, method, uri string, params url.Values, parse func(string) (T, error)) *future.Future[T] {
	d := s.describe(method, uri, params)
	return submit(s, ctx, func(ctx context.Context) (T, error) {
		text, err := s.fetch(ctx, d)
		if err != nil {
			var zero T
			return zero, err
		}
		return parse(text)
	})
}

func identity(text string) (string, error) { return text, nil }

// jsonDecoder repairs `\xHH` escapes and decodes into T.
func jsonDecoder[T any](useNumber bool) func(string) (T, error) {
	return func(text string) (T, error) {
		var v T
		if err := jsonrepair.Unmarshal(text, &v, useNumber); err != nil {
			return v, err
		}
		return v, nil
	}
}
