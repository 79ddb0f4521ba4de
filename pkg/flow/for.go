package flow

import (
	"github.com/vango-dev/woby/pkg/child"
	"github.com/vango-dev/woby/pkg/dom"
	"github.com/vango-dev/woby/pkg/reactive"
	"github.com/vango-dev/woby/pkg/reconcile"
)

type forEntry struct {
	owner *reactive.Owner
	child child.Child
}

// For renders each value of g with render. Results are cached per value:
// while a value stays in the list its child, and the nodes behind it, are
// reused, so reordering moves nodes instead of recreating them. Each item is
// rendered under its own owner, disposed when the value leaves the list.
//
// Equal values are distinct items matched in order of appearance.
func For[T comparable](doc *dom.Document, g child.Getter[[]T], render func(item T) child.Child) child.Child {
	// Item owners hang off the owner For is called under, not the effect
	// scope, so they survive re-runs.
	parent := reactive.CurrentOwner()
	cache := make(map[T][]*forEntry)

	return child.Reactive(func() child.Child {
		values := g.Get()
		next := make(map[T][]*forEntry, len(values))
		items := make([]child.Child, 0, len(values))

		for _, v := range values {
			var e *forEntry
			if pending := cache[v]; len(pending) > 0 {
				e = pending[0]
				cache[v] = pending[1:]
			} else {
				e = &forEntry{owner: reactive.NewOwner(parent)}
				reactive.WithOwner(e.owner, func() {
					reactive.Untracked(func() {
						e.child = materialize(doc, render(v))
					})
				})
			}
			next[v] = append(next[v], e)
			items = append(items, e.child)
		}

		for _, stale := range cache {
			for _, e := range stale {
				e.owner.Dispose()
			}
		}
		cache = next

		return child.List(items...)
	})
}

// materialize turns text into nodes so the cached child keeps its identity.
func materialize(doc *dom.Document, c child.Child) child.Child {
	switch c.Kind() {
	case child.KindText:
		return child.Node(doc.CreateTextNode(c.TextValue()))
	case child.KindList:
		items, _ := reconcile.ResolveArraysAndStatics(doc, c.Items())
		return child.List(items...)
	default:
		return c
	}
}
