package suspense

import (
	"sync"

	"github.com/vango-dev/woby/pkg/reactive"
)

// Data is the suspension state of one boundary.
type Data struct {
	mu     sync.Mutex
	count  int
	active *reactive.Signal[bool]
	parent *Data
}

// NewData creates idle boundary state nested under parent, which may be nil.
func NewData(parent *Data) *Data {
	return &Data{
		active: reactive.NewSignal(false),
		parent: parent,
	}
}

// Active reports whether the boundary is suspended. The read is tracked.
func (d *Data) Active() bool {
	return d.active.Get()
}

// ActiveSignal returns the signal behind Active.
func (d *Data) ActiveSignal() *reactive.Signal[bool] {
	return d.active
}

// Parent returns the enclosing boundary's Data, or nil.
func (d *Data) Parent() *Data {
	return d.parent
}

// Count returns the number of outstanding suspensions.
func (d *Data) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// Increment adds n suspensions. The first one activates the boundary and
// suspends the parent.
func (d *Data) Increment(n int) {
	if n > 0 {
		d.update(n)
	}
}

// Decrement removes up to n suspensions; the count never drops below zero.
// Reaching zero deactivates the boundary and releases the parent.
func (d *Data) Decrement(n int) {
	if n > 0 {
		d.update(-n)
	}
}

// update applies delta to the count and carries a change between idle and
// suspended up to the parent. Locks are taken hand over hand from child to
// parent, so a parent sees its children's transitions in the order they
// happened. The active flags are synced after every lock is released since
// setting them runs effects, which may suspend d again.
func (d *Data) update(delta int) {
	var touched []*Data
	cur := d
	cur.mu.Lock()
	for {
		prev := cur.count
		cur.count = max(prev+delta, 0)
		touched = append(touched, cur)

		parent := cur.parent
		if parent == nil || (prev > 0) == (cur.count > 0) {
			cur.mu.Unlock()
			break
		}
		delta = -1
		if cur.count > 0 {
			delta = 1
		}
		parent.mu.Lock()
		cur.mu.Unlock()
		cur = parent
	}

	for _, t := range touched {
		t.syncActive()
	}
}

// syncActive sets the active flag from the count. The count may change
// while the flag is being written, so it is checked again afterwards; the
// last writer always leaves the flag matching the count.
func (d *Data) syncActive() {
	for {
		d.mu.Lock()
		want := d.count > 0
		d.mu.Unlock()

		d.active.Set(want)

		d.mu.Lock()
		done := (d.count > 0) == want
		d.mu.Unlock()
		if done {
			return
		}
	}
}

// release drops every outstanding suspension, used when the boundary
// unmounts while suspended.
func (d *Data) release() {
	d.mu.Lock()
	n := d.count
	d.mu.Unlock()
	d.Decrement(n)
}

type contextKey struct{}

// Current returns the Data of the nearest boundary in the current owner
// chain, or nil outside any boundary.
func Current() *Data {
	d, _ := reactive.GetContext(contextKey{}).(*Data)
	return d
}
