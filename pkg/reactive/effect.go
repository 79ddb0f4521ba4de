package reactive

import (
	"sync"
	"sync/atomic"

	"github.com/vango-dev/woby/internal/errors"
)

// maxReruns bounds how many times an effect may re-run because it wrote a
// signal it reads during its own run.
const maxReruns = 100

// Effect is a reactive computation that re-runs synchronously when a signal
// it read during its last run changes.
type Effect struct {
	id uint64

	fn      func() Cleanup
	cleanup Cleanup

	sources   []*source
	sourcesMu sync.Mutex

	// owner is the scope the effect was created in.
	owner *Owner

	// scope owns everything created during the current run.
	scope *Owner

	running  bool
	dirty    bool
	disposed atomic.Bool
}

// MarkDirty re-runs the effect. A notification that arrives while the effect
// is running is deferred until the current run returns.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() {
		return
	}
	if e.running {
		e.dirty = true
		return
	}
	e.run()
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Disposed reports whether the effect has been disposed.
func (e *Effect) Disposed() bool {
	return e.disposed.Load()
}

func (e *Effect) run() {
	e.running = true
	defer func() { e.running = false }()

	for runs := 0; ; runs++ {
		if runs >= maxReruns {
			panic(errors.New("W105").WithDetailf("effect %d re-triggered itself %d times", e.id, runs))
		}
		e.dirty = false
		e.runOnce()
		if !e.dirty || e.disposed.Load() {
			return
		}
	}
}

func (e *Effect) runOnce() {
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	e.dropSources()

	if e.scope != nil {
		e.scope.Dispose()
	}
	e.scope = NewOwner(e.owner)

	ctx := tracking()
	oldListener, oldOwner := ctx.listener, ctx.owner
	ctx.listener, ctx.owner = e, e.scope
	defer func() {
		ctx.listener, ctx.owner = oldListener, oldOwner
	}()

	e.cleanup = e.fn()
}

// addSource records a signal read during the current run.
func (e *Effect) addSource(s *source) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, existing := range e.sources {
		if existing == s {
			return
		}
	}
	e.sources = append(e.sources, s)
}

func (e *Effect) dropSources() {
	e.sourcesMu.Lock()
	sources := e.sources
	e.sources = nil
	e.sourcesMu.Unlock()

	for _, s := range sources {
		s.unsubscribe(e)
	}
}

// Dispose stops the effect, runs its cleanup and disposes its scope.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}
	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}
	e.dropSources()
	if e.scope != nil {
		e.scope.Dispose()
		e.scope = nil
	}
}

// CreateEffect creates an effect in the current owner and runs it once
// immediately. fn may return a Cleanup that runs before the next run and on
// disposal.
func CreateEffect(fn func() Cleanup) *Effect {
	owner := CurrentOwner()
	e := &Effect{
		id:    nextID(),
		fn:    fn,
		owner: owner,
	}
	if owner != nil {
		owner.registerEffect(e)
	}
	e.run()
	return e
}

// Subscribe runs fn now and again, synchronously, whenever a signal it read
// changes. It is the subscription primitive the renderer builds on.
func Subscribe(fn func()) *Effect {
	return CreateEffect(func() Cleanup {
		fn()
		return nil
	})
}
