package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrearampin/qscraper"
	"github.com/andrearampin/qscraper/session"
)

type globalFlags struct {
	headers      []string
	cookies      bool
	timeout      time.Duration
	rps          int
	burst        int
	maxRedirects int
	verbose      bool
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	cmd := &cobra.Command{
		Use:           "qscraper",
		Short:         "Fetch, parse and download web pages through a scraping session",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringArrayVarP(&g.headers, "header", "H", nil, `session header as "Key: Value" (repeatable)`)
	pf.BoolVar(&g.cookies, "cookies", false, "keep cookies set by responses for the rest of the session")
	pf.DurationVar(&g.timeout, "timeout", 30*time.Second, "per-request timeout (0 disables)")
	pf.IntVar(&g.rps, "rps", 0, "requests per second per host (0 disables throttling)")
	pf.IntVar(&g.burst, "burst", 1, "throttle burst size")
	pf.IntVar(&g.maxRedirects, "max-redirects", session.DefaultMaxRedirects, "303 redirects followed before giving up")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.AddCommand(
		newFetchCmd(&g, "get"),
		newFetchCmd(&g, "post"),
		newJSONCmd(&g),
		newSelectCmd(&g),
		newDownloadCmd(&g),
	)

	return cmd
}

func (g *globalFlags) logger() *slog.Logger {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// session builds the session shared by every call of one command.
func (g *globalFlags) session(extra ...session.Option) (*session.Session, error) {
	headers, err := parseHeaders(g.headers)
	if err != nil {
		return nil, err
	}

	opts := []session.Option{
		session.WithLogger(g.logger()),
		session.WithTimeout(g.timeout),
		session.WithMaxRedirects(g.maxRedirects),
		session.WithHeaders(headers),
	}
	if g.rps > 0 {
		opts = append(opts, session.WithThrottle(g.rps, g.burst))
	}
	opts = append(opts, extra...)

	if g.cookies {
		return qscraper.NewCookieSession(opts...)
	}
	return qscraper.NewSession(opts...)
}

// parseHeaders turns "Key: Value" strings into a header map.
func parseHeaders(raw []string) (map[string]string, error) {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		k, v, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("header %q: expected \"Key: Value\"", h)
		}
		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return headers, nil
}

// parseParams turns "k=v" arguments into request parameters.
func parseParams(args []string) (url.Values, error) {
	if len(args) == 0 {
		return nil, nil
	}

	params := make(url.Values, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("parameter %q: expected k=v", a)
		}
		params.Add(k, v)
	}
	return params, nil
}
