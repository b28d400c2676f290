// Package throttle provides an [http.RoundTripper] that keeps a scraping
// session polite: every target host gets its own token bucket from
// [golang.org/x/time/rate], so a slow crawl of one site never starves
// requests to another.
//
// # Usage
//
// Wrap an existing transport with [NewRoundTripper]:
//
//	rt, err := throttle.NewRoundTripper(
//		throttle.Config{RPS: 2, Burst: 4},
//		slog.Default(),
//		http.DefaultTransport,
//	)
//	httpClient := &http.Client{Transport: rt}
//
// When a host's budget is spent, requests to it block until a token
// becomes available or the request context is cancelled.
package throttle
