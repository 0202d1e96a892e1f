package retrycache

import "context"

// Future is the shared handle for one producer attempt. It settles exactly
// once, and every holder observes the same value or error.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// settle must be called at most once.
func (f *Future[T]) settle(val T, err error) {
	f.val, f.err = val, err
	close(f.done)
}

// Done returns a channel that is closed once the attempt has settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the attempt settles or ctx is done. Giving up on the
// wait does not cancel the producer.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Peek reports the outcome without blocking. ok is false while the attempt
// is still pending.
func (f *Future[T]) Peek() (val T, ok bool, err error) {
	select {
	case <-f.done:
		return f.val, true, f.err
	default:
		var zero T
		return zero, false, nil
	}
}
