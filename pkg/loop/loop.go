// Package loop serializes work onto a single render goroutine.
//
// Reconciliation is single-goroutine. Background work (fetches, timers,
// network reads) never touches signals directly; it hands a function to
// Dispatch, and the goroutine running the loop executes queued functions in
// order:
//
//	l := loop.New(slog.Default())
//	go func() {
//	    user, err := fetchUser(ctx, id)
//	    l.Dispatch(func() {
//	        if err != nil {
//	            errSignal.Set(err)
//	            return
//	        }
//	        userSignal.Set(user)
//	    })
//	}()
//	l.Run(ctx)
package loop

import (
	"context"
	"log/slog"
	"sync"
)

// Dispatcher queues functions for the render goroutine.
type Dispatcher interface {
	Dispatch(fn func())
}

// Loop is a FIFO of functions executed on one goroutine.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	closed  bool
	wake    chan struct{}
	logger  *slog.Logger
	onFlush []func()
}

// New creates a Loop. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		wake:   make(chan struct{}, 1),
		logger: logger,
	}
}

// Dispatch queues fn. It is safe to call from any goroutine, including the
// loop's own. Functions dispatched after Close are discarded.
func (l *Loop) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.logger.Debug("loop closed, discarding callback")
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// OnFlush registers fn to run on the loop goroutine after every batch of
// queued functions.
func (l *Loop) OnFlush(fn func()) {
	l.mu.Lock()
	l.onFlush = append(l.onFlush, fn)
	l.mu.Unlock()
}

// Pending returns the number of queued functions.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Flush runs queued functions on the calling goroutine until the queue is
// empty, including functions queued while flushing. It returns how many ran.
func (l *Loop) Flush() int {
	ran := 0
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		hooks := l.onFlush
		l.mu.Unlock()

		if len(batch) == 0 {
			return ran
		}
		for _, fn := range batch {
			l.run(fn)
			ran++
		}
		for _, fn := range hooks {
			l.run(fn)
		}
	}
}

// run executes fn, logging a panic instead of killing the loop.
func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop callback panicked", "panic", r)
		}
	}()
	fn()
}

// Run flushes the queue every time work arrives until ctx is done or the
// loop is closed. The calling goroutine becomes the render goroutine.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Flush()

		l.mu.Lock()
		closed := l.closed
		l.mu.Unlock()
		if closed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Close stops accepting work and wakes Run so it can return once the queue
// is drained.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}
