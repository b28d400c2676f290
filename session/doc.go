// Package session implements a scraping session on top of [net/http].
//
// # Building a Session
//
// Use [Build] to create a [Session] with functional options:
//
//	s, err := session.Build(
//		session.WithTimeout(10 * time.Second),
//		session.WithCookies(),
//	)
//
// Every request carries the base headers (see [BaseHeaders]), overridden
// by the session headers set with [WithHeaders], [WithUserAgent] or
// [Session.AddHeader].
//
// # Making Requests
//
// Calls return a [future.Future] immediately and run in the background:
//
//	f := s.Get(ctx, "https://example.com/search", url.Values{"q": {"go"}})
//	body, err := f.Await(ctx)
//
// Bodies are decoded according to Content-Encoding (gzip, deflate) and
// transcoded to UTF-8 when the Content-Type declares another charset. A
// 303 See Other is followed, re-sending the same method and parameters,
// up to [WithMaxRedirects] hops. Any other status than 200 rejects with
// [UnexpectedStatusError].
//
// [Session.GetDocument] and [Session.GetJSON] parse the body as HTML or
// JSON; `\xHH` escapes are repaired before JSON decoding.
//
// # Downloading Files
//
// Stream a response body directly to disk with optional checksum
// verification and progress reporting:
//
//	path, err := s.Download(ctx, "https://example.com/file.bin", "/tmp",
//		session.WithChecksum(sha256.New(), expectedHex),
//		session.WithProgress(),
//	).Await(ctx)
//
// For lower-level control see the
// [github.com/andrearampin/qscraper/session/download] package.
package session
