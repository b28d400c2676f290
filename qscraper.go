// Package qscraper exposes the session builders.
package qscraper

import (
	"github.com/andrearampin/qscraper/session"
)

// NewSession instantiates a new *Session with the provided options.
// If not specified, a copy of the default http.Client and http.Transport are used.
func NewSession(opts ...session.Option) (*session.Session, error) {
	return session.Build(opts...)
}

// NewCookieSession is [NewSession] with a cookie jar of its own, so cookies
// set by responses are sent back on later calls of the same session.
func NewCookieSession(opts ...session.Option) (*session.Session, error) {
	return session.Build(append(opts, session.WithCookies())...)
}
