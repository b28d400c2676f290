package session

import "net/http"

// DefaultUserAgent is sent unless the session overrides it.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_9_0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/31.0.1650.63 Safari/537.36"

// baseHeaders go out with every request. Accept-Encoding is set
// explicitly so net/http leaves Content-Encoding to the session.
var baseHeaders = http.Header{
	"User-Agent":      {DefaultUserAgent},
	"Cache-Control":   {"no-cache"},
	"Pragma":          {"no-cache"},
	"Accept-Encoding": {"gzip, deflate"},
}

// BaseHeaders returns a copy of the headers every session starts from.
func BaseHeaders() http.Header {
	return baseHeaders.Clone()
}
