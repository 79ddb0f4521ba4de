package suspense

import (
	"context"
	"sync"
	"time"

	"github.com/vango-dev/woby/pkg/loop"
	"github.com/vango-dev/woby/pkg/reactive"
)

// State represents the current state of a resource.
type State int

const (
	Pending State = iota // Initial state, before first fetch
	Loading              // Fetch in progress
	Ready                // Data successfully loaded
	Failed               // Fetch failed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resource is asynchronously fetched data that suspends the nearest
// boundary while a fetch is in flight.
type Resource[T any] struct {
	fetcher    func(context.Context) (T, error)
	dispatcher loop.Dispatcher
	manager    *Manager

	state *reactive.Signal[State]
	data  *reactive.Signal[T]
	err   *reactive.Signal[error]

	ctx    context.Context
	cancel context.CancelFunc

	staleTime  time.Duration
	retryCount int
	retryDelay time.Duration
	onSuccess  func(T)
	onError    func(error)

	// Internal
	lastFetch time.Time
	fetchID   uint64 // results of older fetches are dropped
	mu        sync.Mutex
}

// UseResource creates a Resource under the current owner and starts the
// first fetch. fetcher runs on its own goroutine; its result is applied on
// the render goroutine through d. Disposing the owner cancels ctx for any
// fetch in flight and releases the boundary.
func UseResource[T any](ctx context.Context, d loop.Dispatcher, fetcher func(context.Context) (T, error), opts ...Option[T]) *Resource[T] {
	var zero T
	ctx, cancel := context.WithCancel(ctx)
	r := &Resource[T]{
		fetcher:    fetcher,
		dispatcher: d,
		manager:    NewManager(),
		state:      reactive.NewSignal(Pending),
		data:       reactive.NewSignal(zero).WithEquals(func(_, _ T) bool { return false }),
		err:        reactive.NewSignal[error](nil),
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(r)
	}

	reactive.OnCleanup(func() {
		cancel()
		r.manager.Unsuspend()
	})

	r.Refetch()
	return r
}

// State methods

func (r *Resource[T]) State() State {
	return r.state.Get()
}

func (r *Resource[T]) Loading() bool {
	s := r.state.Get()
	return s == Loading || s == Pending
}

func (r *Resource[T]) IsReady() bool {
	return r.state.Get() == Ready
}

func (r *Resource[T]) IsError() bool {
	return r.state.Get() == Failed
}

// Data access methods

func (r *Resource[T]) Value() T {
	return r.data.Get()
}

func (r *Resource[T]) ValueOr(fallback T) T {
	if r.IsReady() {
		return r.data.Get()
	}
	return fallback
}

func (r *Resource[T]) Err() error {
	return r.err.Get()
}

// Control methods

// Fetch triggers a fetch unless the data is ready and younger than the
// stale time. Use Refetch to force one.
func (r *Resource[T]) Fetch() {
	r.mu.Lock()
	if r.state.Peek() == Ready && time.Since(r.lastFetch) < r.staleTime {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	r.Refetch()
}

// Refetch starts a fetch, superseding any in flight. It must be called on
// the render goroutine.
func (r *Resource[T]) Refetch() {
	if r.ctx.Err() != nil {
		return
	}

	r.mu.Lock()
	r.fetchID++
	currentID := r.fetchID
	retries, delay := r.retryCount, r.retryDelay
	r.mu.Unlock()

	reactive.Batch(func() {
		r.state.Set(Loading)
		r.err.Set(nil)
	})
	if r.manager.Held(r.manager.Boundary()) == 0 {
		r.manager.Suspend()
	}

	go func() {
		var result T
		var err error

		for attempt := 0; attempt <= retries; attempt++ {
			if attempt > 0 {
				select {
				case <-time.After(delay):
				case <-r.ctx.Done():
					return
				}
			}
			if !r.current(currentID) {
				return
			}
			result, err = r.fetcher(r.ctx)
			if err == nil {
				break
			}
		}

		r.dispatcher.Dispatch(func() {
			r.settle(currentID, result, err)
		})
	}()
}

func (r *Resource[T]) current(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetchID == id && r.ctx.Err() == nil
}

// settle applies a fetch result on the render goroutine.
func (r *Resource[T]) settle(id uint64, result T, err error) {
	if !r.current(id) {
		return
	}
	r.mu.Lock()
	r.lastFetch = time.Now()
	onSuccess, onError := r.onSuccess, r.onError
	r.mu.Unlock()

	reactive.Batch(func() {
		if err != nil {
			r.err.Set(err)
			r.state.Set(Failed)
		} else {
			r.data.Set(result)
			r.state.Set(Ready)
		}
	})
	r.manager.Unsuspend()

	if err != nil {
		if onError != nil {
			onError(err)
		}
		return
	}
	if onSuccess != nil {
		onSuccess(result)
	}
}

// Invalidate marks the current data as stale.
func (r *Resource[T]) Invalidate() {
	r.mu.Lock()
	r.lastFetch = time.Time{}
	r.mu.Unlock()
}

// Mutate replaces the local data optimistically.
func (r *Resource[T]) Mutate(fn func(T) T) {
	r.data.Set(fn(r.data.Peek()))
}
