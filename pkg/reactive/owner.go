package reactive

import (
	"sync"
	"sync/atomic"
)

// Owner is a disposal scope. Effects, cleanups, context values and child
// owners created while an Owner is current belong to it, and disposing it
// releases all of them.
//
// Owners form a tree mirroring the render tree: every effect run opens a
// child owner of the scope the effect was created in.
type Owner struct {
	id     uint64
	parent *Owner

	mu       sync.Mutex // guards children, effects, cleanups
	children []*Owner
	effects  []*Effect
	cleanups []func()

	values   map[any]any
	valuesMu sync.RWMutex

	disposed atomic.Bool
}

// NewOwner creates an Owner registered as a child of parent.
// A nil parent creates a root.
func NewOwner(parent *Owner) *Owner {
	o := &Owner{id: nextID(), parent: parent}
	if parent != nil {
		parent.mu.Lock()
		parent.children = append(parent.children, o)
		parent.mu.Unlock()
	}
	return o
}

// ID returns the unique identifier for this Owner.
func (o *Owner) ID() uint64 { return o.id }

// Parent returns the parent Owner, or nil for a root.
func (o *Owner) Parent() *Owner { return o.parent }

// IsDisposed reports whether the Owner has been disposed.
func (o *Owner) IsDisposed() bool { return o.disposed.Load() }

func (o *Owner) detach(child *Owner) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, c := range o.children {
		if c == child {
			o.children = append(o.children[:i], o.children[i+1:]...)
			return
		}
	}
}

func (o *Owner) registerEffect(e *Effect) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.disposed.Load() {
		o.effects = append(o.effects, e)
	}
}

// OnCleanup registers fn to run when the Owner is disposed. On an already
// disposed Owner fn runs immediately.
func (o *Owner) OnCleanup(fn func()) {
	o.mu.Lock()
	if !o.disposed.Load() {
		o.cleanups = append(o.cleanups, fn)
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()
	fn()
}

// Dispose disposes child owners (last created first), then effects, then
// cleanups in reverse registration order. It is idempotent.
func (o *Owner) Dispose() {
	o.mu.Lock()
	if o.disposed.Swap(true) {
		o.mu.Unlock()
		return
	}
	children, effects, cleanups := o.children, o.effects, o.cleanups
	o.children, o.effects, o.cleanups = nil, nil, nil
	o.mu.Unlock()

	if o.parent != nil {
		o.parent.detach(o)
	}
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}
	for _, e := range effects {
		e.Dispose()
	}
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

// Root runs fn under a new root Owner. fn receives the function that
// disposes the root.
func Root(fn func(dispose func())) {
	owner := NewOwner(nil)
	WithOwner(owner, func() {
		Untracked(func() {
			fn(owner.Dispose)
		})
	})
}

// OnCleanup registers fn with the current owner. Without an owner fn is
// never called.
func OnCleanup(fn func()) {
	if owner := CurrentOwner(); owner != nil {
		owner.OnCleanup(fn)
	}
}
