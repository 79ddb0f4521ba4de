// Package woby is the public entry point: it mounts child values into DOM
// nodes and re-exports the types most callers need.
//
// Usage:
//
//	doc := woby.NewDocument()
//	root := doc.CreateElement("div")
//	count := woby.NewSignal(0)
//	dispose, err := woby.Render(woby.Of[int](count), root)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dispose()
//	count.Set(1)
package woby

import (
	"github.com/vango-dev/woby/pkg/child"
	"github.com/vango-dev/woby/pkg/dom"
	"github.com/vango-dev/woby/pkg/reactive"
	"github.com/vango-dev/woby/pkg/reconcile"
	"github.com/vango-dev/woby/pkg/suspense"
)

// =============================================================================
// Rendering
// =============================================================================

// Render clears parent and mounts c into it under a fresh root owner, using
// reconcile.Default. The returned function disposes every subscription
// created by the render and empties parent.
func Render(c Child, parent *Node) (dispose func(), err error) {
	return RenderWith(reconcile.Default, c, parent)
}

// RenderWith is Render with an explicit Reconciler.
func RenderWith(r *reconcile.Reconciler, c Child, parent *Node) (dispose func(), err error) {
	if parent != nil && parent.CanHaveChildren() {
		parent.SetTextContent("")
	}
	owner, err := mount(r, c, parent)
	if err != nil {
		owner.Dispose()
		return func() {}, err
	}
	return func() {
		owner.Dispose()
		parent.SetTextContent("")
	}, nil
}

// Mount appends a slot for c after parent's existing children and keeps it
// up to date. Unlike Render it leaves existing children alone, and the
// returned function only stops updates.
func Mount(c Child, parent *Node) (dispose func(), err error) {
	owner, err := mount(reconcile.Default, c, parent)
	if err != nil {
		owner.Dispose()
		return func() {}, err
	}
	return owner.Dispose, nil
}

func mount(r *reconcile.Reconciler, c Child, parent *Node) (*reactive.Owner, error) {
	owner := reactive.NewOwner(nil)
	var err error
	reactive.WithOwner(owner, func() {
		reactive.Untracked(func() {
			_, err = r.SetChild(parent, c)
		})
	})
	return owner, err
}

// =============================================================================
// DOM (re-export from pkg/dom)
// =============================================================================

// Document creates nodes and records mutations.
type Document = dom.Document

// Node is a DOM node.
type Node = dom.Node

// NewDocument creates an empty document.
var NewDocument = dom.NewDocument

// =============================================================================
// Children (re-export from pkg/child)
// =============================================================================

// Child is the value bound to a slot.
type Child = child.Child

// Void renders nothing.
var Void = child.Void

var (
	Text     = child.Text
	Int      = child.Int
	Float    = child.Float
	List     = child.List
	Reactive = child.Reactive
	Frozen   = child.Frozen
	From     = child.From
	If       = child.If
)

// El wraps a node as a child.
var El = child.Node

// Of renders the current value of a signal or any other getter.
func Of[T any](g child.Getter[T]) Child {
	return child.Of(g)
}

// =============================================================================
// Reactive primitives (re-export from pkg/reactive)
// =============================================================================

// Signal is a reactive value container.
type Signal[T any] = reactive.Signal[T]

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	return reactive.NewSignal(initial)
}

var (
	Batch     = reactive.Batch
	Untracked = reactive.Untracked
	OnCleanup = reactive.OnCleanup
	Root      = reactive.Root
)

// =============================================================================
// Suspense (re-export from pkg/suspense)
// =============================================================================

// SuspenseProps configures a suspense boundary.
type SuspenseProps = suspense.Props

var (
	Suspense = suspense.Suspense
	Boundary = suspense.Boundary
)
