package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/andrearampin/qscraper/session/throttle"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxRedirects is the number of 303 hops followed before a call
// fails with [RedirectLoopError].
const DefaultMaxRedirects = 5

// Option is a functional option for configuring a [Session] via [Build].
type Option func(*options) error
type options struct {
	client         *http.Client
	rt             http.RoundTripper
	timeout        *time.Duration
	userAgent      string
	headers        map[string]string
	jar            http.CookieJar
	cookies        bool
	throttle       *throttle.Config
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	useJSONNumber  bool
	limits         limits
}

// WithClient uses a copy of hc as the session's transport client. Its
// redirect policy is replaced; everything else carries over.
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithTimeout sets the overall per-hop timeout on the underlying [http.Client].
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithUserAgent replaces the default User-Agent for every request of the session.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		if header == "" {
			return errors.New("user agent must not be empty")
		}
		c.userAgent = header
		return nil
	}
}

// WithHeaders sets session headers. They override the base headers and
// are themselves overridden by later [Session.AddHeader] calls.
func WithHeaders(headers map[string]string) Option {
	return func(c *options) error {
		if c.headers == nil {
			c.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			c.headers[k] = v
		}
		return nil
	}
}

// WithCookieJar shares jar with every request of the session.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *options) error {
		if jar == nil {
			return errors.New("cookie jar must not be nil")
		}
		c.jar = jar
		return nil
	}
}

// WithCookies gives the session a fresh cookie jar of its own.
func WithCookies() Option {
	return func(c *options) error {
		c.cookies = true
		return nil
	}
}

// WithThrottle enables per-host token-bucket rate limiting with the given
// requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		c.throttle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithMaxRedirects sets how many 303 hops a buffered call follows.
// Zero turns every 303 into a [RedirectLoopError].
func WithMaxRedirects(n int) Option {
	return func(c *options) error {
		c.limits.MaxRedirects = n
		return nil
	}
}

// WithConcurrency bounds the number of in-flight calls of the session.
// Zero means unlimited.
func WithConcurrency(n int) Option {
	return func(c *options) error {
		c.limits.Concurrency = n
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Session].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// WithTracerProvider sets the provider for request spans. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *options) error {
		if tp == nil {
			return errors.New("tracer provider must not be nil")
		}
		c.tracerProvider = tp
		return nil
	}
}

// WithJSONNumber tells the JSON operations to decode numbers as
// [encoding/json.Number], preserving precision.
func WithJSONNumber() Option {
	return func(c *options) error {
		c.useJSONNumber = true
		return nil
	}
}
