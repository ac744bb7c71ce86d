package db

import (
	"context"
	"sync"
)

// Subscription is a running live query. Callbacks are delivered one at a
// time from the subscription's own goroutine.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	stopped bool

	errMu sync.Mutex
	err   error
}

func startSubscription(ctx context.Context, run func(ctx context.Context, emit func(func())) error) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		err := run(ctx, s.emit)
		if err != nil && ctx.Err() == nil {
			s.errMu.Lock()
			s.err = err
			s.errMu.Unlock()
		}
	}()
	return s
}

func (s *Subscription) emit(deliver func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	deliver()
}

// Unsubscribe stops the live query. Once it returns the callback is never
// invoked again. It must not be called from inside the callback.
func (s *Subscription) Unsubscribe() {
	s.cancel()
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
}

// Done is closed when the subscription's goroutine has exited, either after
// Unsubscribe, because the parent context ended, or because the backend failed.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err reports the backend failure that ended the subscription, if any.
func (s *Subscription) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}
