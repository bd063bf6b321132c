package remora

import (
	"context"
	"sync"
)

// signal is a one-shot completion notification. It is created at task
// admission, handed out as a prior-wait handle to every later task whose
// footprint overlaps, and fired exactly once by its owning task on
// completion — releasing every waiter regardless of how many objects it
// was filed under.
type signal struct {
	done chan struct{}
	once sync.Once
}

func newSignal() *signal {
	return &signal{done: make(chan struct{})}
}

// fire releases every waiter. Safe to call more than once or
// concurrently; only the first call has effect.
func (s *signal) fire() {
	s.once.Do(func() { close(s.done) })
}

// wait blocks until fire is called or ctx is done, whichever comes
// first.
func (s *signal) wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
