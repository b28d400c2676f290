// Command qscraper issues scraping requests from the command line.
//
//	qscraper get https://example.com/search q=golang
//	qscraper select https://example.com "h1.title"
//	qscraper json --post https://example.com/api id=7
//	qscraper download https://example.com/file.tar.gz /tmp --progress
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
