package dashboard

import (
	"context"
	"sync"
)

// Loader serializes device-scoped fetches. Starting a new fetch cancels the
// previous one, and a result that arrives for a superseded fetch is
// discarded instead of overwriting newer state.
type Loader[T any] struct {
	mu        sync.Mutex
	gen       uint64
	delivered uint64
	cancel    context.CancelFunc
}

// Fetch runs fn on its own goroutine and hands the result to deliver unless
// a newer Fetch started in the meantime. The context given to fn is
// canceled as soon as the fetch is superseded or the loader is closed.
func (l *Loader[T]) Fetch(ctx context.Context, fn func(context.Context) (T, error), deliver func(T, error)) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	go func() {
		defer cancel()
		data, err := fn(ctx)

		l.mu.Lock()
		if gen != l.gen || gen <= l.delivered {
			l.mu.Unlock()
			return
		}
		l.delivered = gen
		l.mu.Unlock()

		deliver(data, err)
	}()
}

// Close cancels any in-flight fetch.
func (l *Loader[T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	// Outstanding results must not deliver after Close.
	l.delivered = l.gen
}
