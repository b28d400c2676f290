package session

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// descriptor is everything needed to issue one call. It is built fresh
// per call and reused unchanged across redirect hops, except for uri.
type descriptor struct {
	method string
	uri    string
	params url.Values
	header http.Header
}

// request instantiates an *http.Request from d. GET params are merged
// into the query string; POST params become a form-encoded body.
func (d descriptor) request(ctx context.Context) (*http.Request, error) {
	u, err := url.Parse(d.uri)
	if err != nil {
		return nil, fmt.Errorf("parsing uri: %w", err)
	}

	var body io.Reader
	switch d.method {
	case http.MethodPost:
		if d.params != nil {
			body = strings.NewReader(d.params.Encode())
		}
	default:
		if len(d.params) > 0 {
			q := u.Query()
			for k, vs := range d.params {
				for _, v := range vs {
					q.Add(k, v)
				}
			}
			u.RawQuery = q.Encode()
		}
	}

	req, err := http.NewRequestWithContext(ctx, d.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	req.Header = d.header.Clone()
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return req, nil
}
