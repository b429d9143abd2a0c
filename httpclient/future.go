package httpclient

import (
	"context"
	"sync"

	goerrors "github.com/kbukum/jolt/errors"
)

// Future is the pending result of a request running on its own goroutine.
// It completes exactly once, with either a value or an error.
type Future[T any] struct {
	done   chan struct{}
	once   sync.Once
	value  T
	err    error
	cancel context.CancelFunc
}

func newFuture[T any](cancel context.CancelFunc) *Future[T] {
	return &Future[T]{done: make(chan struct{}), cancel: cancel}
}

// failedFuture returns a Future already completed with err.
func failedFuture[T any](err error) *Future[T] {
	f := newFuture[T](func() {})
	f.complete(*new(T), err)
	return f
}

func (f *Future[T]) complete(value T, err error) {
	f.once.Do(func() {
		f.value, f.err = value, err
		close(f.done)
	})
}

// Await blocks until the request completes or ctx is done. Giving up on
// ctx does not cancel the request; use Cancel for that.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, goerrors.Cancelled(ctx.Err())
	}
}

// Done is closed when the request completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Cancel aborts the request. A request already completed is unaffected;
// otherwise the Future fails with a CANCELLED error.
func (f *Future[T]) Cancel() {
	f.cancel()
}
