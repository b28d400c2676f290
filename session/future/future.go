package future

import (
	"context"
	"sync"
	"sync/atomic"
)

// State is the lifecycle position of a [Future].
type State int32

const (
	Pending State = iota
	Fulfilled
	Rejected
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// WorkFunc is the signature for async work.
type WorkFunc[T any] func(ctx context.Context) (T, error)

// Future holds the eventual outcome of a single call.
type Future[T any] struct {
	done   chan struct{}
	once   sync.Once
	state  atomic.Int32
	value  T
	err    error
	cancel context.CancelFunc
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{
		done:   make(chan struct{}),
		cancel: func() {},
	}
}

// Go runs fn on a new goroutine and returns the Future tracking it.
func Go[T any](ctx context.Context, fn WorkFunc[T]) *Future[T] {
	ctx, cancel := context.WithCancel(ctx)
	f := newFuture[T]()
	f.cancel = cancel

	go func() {
		defer cancel()
		f.settle(fn(ctx))
	}()

	return f
}

// Resolve returns a Future already fulfilled with v.
func Resolve[T any](v T) *Future[T] {
	f := newFuture[T]()
	f.settle(v, nil)
	return f
}

// Reject returns a Future already rejected with err.
func Reject[T any](err error) *Future[T] {
	f := newFuture[T]()
	var zero T
	f.settle(zero, err)
	return f
}

// settle records the outcome. Only the first call has any effect.
func (f *Future[T]) settle(v T, err error) {
	f.once.Do(func() {
		if err != nil {
			f.err = err
			f.state.Store(int32(Rejected))
		} else {
			f.value = v
			f.state.Store(int32(Fulfilled))
		}
		close(f.done)
	})
}

// Done returns a channel that is closed once the Future settles.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// State reports the current state without blocking.
func (f *Future[T]) State() State { return State(f.state.Load()) }

// Value blocks until the Future settles and returns its outcome.
func (f *Future[T]) Value() (T, error) {
	<-f.done
	return f.value, f.err
}

// Err blocks until the Future settles and returns its error.
func (f *Future[T]) Err() error {
	<-f.done
	return f.err
}

// Await blocks until the Future settles or ctx ends, whichever comes
// first. Ending ctx stops the wait, not the work: use Cancel for that.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cancel cancels the context handed to the work function.
func (f *Future[T]) Cancel() {
	f.cancel()
}

// Then returns a Future that applies fn to the value of f once it is
// fulfilled. A rejection of f is passed through without calling fn.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	next := newFuture[U]()
	next.cancel = f.cancel

	go func() {
		v, err := f.Value()
		if err != nil {
			var zero U
			next.settle(zero, err)
			return
		}
		next.settle(fn(v))
	}()

	return next
}

// All returns a Future fulfilled with every value, in argument order, once
// all of fs are fulfilled. It is rejected with the first rejection observed.
func All[T any](fs ...*Future[T]) *Future[[]T] {
	out := newFuture[[]T]()
	out.cancel = func() {
		for _, f := range fs {
			f.Cancel()
		}
	}

	if len(fs) == 0 {
		out.settle([]T{}, nil)
		return out
	}

	var (
		mu        sync.Mutex
		remaining = len(fs)
		values    = make([]T, len(fs))
	)

	for i, f := range fs {
		go func() {
			v, err := f.Value()
			if err != nil {
				out.settle(nil, err)
				return
			}

			mu.Lock()
			values[i] = v
			remaining--
			last := remaining == 0
			mu.Unlock()

			if last {
				out.settle(values, nil)
			}
		}()
	}

	return out
}
