package throttle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Config defines the per-host requests per second and burst size.
type Config struct {
	RPS   int
	Burst int
}

func (c Config) validate() error {
	if c.RPS <= 0 || c.Burst <= 0 {
		return fmt.Errorf("rps[%d] and burst[%d] %w", c.RPS, c.Burst, ErrMustNotBeZero)
	}
	return nil
}

// throttle is an http.RoundTripper holding one limiter per request host.
type throttle struct {
	cfg    Config
	next   http.RoundTripper
	logger *slog.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRoundTripper returns an http.RoundTripper that throttles outbound
// requests per host. A nil logger disables the exhaustion logs.
func NewRoundTripper(cfg Config, logger *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if next == nil {
		next = http.DefaultTransport
	}

	t := &throttle{
		cfg:      cfg,
		next:     next,
		logger:   logger,
		limiters: make(map[string]*rate.Limiter),
	}

	return t, nil
}

// limiter returns the bucket for host, creating it on first use.
func (t *throttle) limiter(host string) *rate.Limiter {
	host = strings.ToLower(host)

	t.mu.Lock()
	defer t.mu.Unlock()

	l, ok := t.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(t.cfg.RPS), t.cfg.Burst)
		t.limiters[host] = l
	}

	return l
}

func (t *throttle) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	l := t.limiter(r.URL.Host)

	r0 := l.Reserve()
	if !r0.OK() {
		return nil, fmt.Errorf("%w: burst %d too small", ErrWaitingFailed, t.cfg.Burst)
	}

	delay := r0.Delay()
	if delay == 0 {
		return t.next.RoundTrip(r)
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
		r0.Cancel()
		return nil, fmt.Errorf("%w: host %s needs %s: %w", ErrWaitingFailed, r.URL.Host, delay, context.DeadlineExceeded)
	}

	if t.logger != nil {
		t.logger.Info("throttle tokens exhausted", "host", r.URL.Host, "wait", delay.String(), "rate", t.cfg.RPS, "burst", t.cfg.Burst)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		r0.Cancel()
		return nil, fmt.Errorf("%w: %w", ErrWaitingFailed, ctx.Err())
	}

	if err := ctx.Err(); err != nil { // Check context hasn't expired again.
		return nil, fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return t.next.RoundTrip(r)
}
