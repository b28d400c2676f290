package future

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrGroupShutdown indicates the group no longer accepts work.
var ErrGroupShutdown = errors.New("group shut down")

// Group manages a set of concurrent futures.
type Group struct {
	mu       sync.Mutex
	idle     *sync.Cond
	pending  int
	sem      chan struct{}
	shutdown atomic.Bool
	errs     []error
}

// NewGroup creates a Group with the given concurrency limit.
// If maxConcurrent <= 0, concurrency is unlimited.
func NewGroup(maxConcurrent int) *Group {
	g := &Group{}
	g.idle = sync.NewCond(&g.mu)
	if maxConcurrent > 0 {
		g.sem = make(chan struct{}, maxConcurrent)
	}
	return g
}

// Submit launches fn in a new goroutine managed by g once a slot is free
// and returns the Future tracking it. Submit may be called concurrently
// with Wait.
func Submit[T any](g *Group, ctx context.Context, fn WorkFunc[T]) *Future[T] {
	ctx, cancel := context.WithCancel(ctx)
	f := newFuture[T]()
	f.cancel = cancel

	g.mu.Lock()
	g.pending++
	g.mu.Unlock()

	go func() {
		var (
			v   T
			err error
		)
		defer func() {
			cancel()
			f.settle(v, err)
			g.done(err)
		}()

		if g.sem != nil {
			select {
			case g.sem <- struct{}{}:
				defer func() {
					<-g.sem
				}()
			case <-ctx.Done():
				err = ctx.Err()
				return
			}
		}

		if g.shutdown.Load() {
			err = ErrGroupShutdown
			return
		}

		v, err = fn(ctx)
	}()

	return f
}

// Wait blocks until no submitted future is pending and returns the errors
// recorded since the previous Wait, joined via errors.Join. Reported
// errors are released, so each error is returned by exactly one Wait.
func (g *Group) Wait() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for g.pending > 0 {
		g.idle.Wait()
	}

	errs := g.errs
	g.errs = nil

	return errors.Join(errs...)
}

// Shutdown prevents new work from executing in this group.
func (g *Group) Shutdown() {
	g.shutdown.Store(true)
}

func (g *Group) done(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err != nil {
		g.errs = append(g.errs, err)
	}
	g.pending--
	if g.pending == 0 {
		g.idle.Broadcast()
	}
}
