// Package reconcile keeps a parent node's children synchronized with a child
// value.
//
// The pipeline has three stages:
//
//   - ResolveChild unwraps a child.Child: reactive children are subscribed
//     and re-resolved on every change, lists are flattened.
//   - Reconciler.SetChildStatic applies a resolved value to a slot, tracked
//     by a fragment.Fragment. Text leaves become text nodes here, reusing
//     the slot's previous text nodes with the same value. Common shapes take
//     fast paths (first insert, in-place text update, placeholder swap);
//     everything else goes through the differ.
//   - Diff reorders a run of sibling nodes into a new order with few
//     mutations, moving nodes rather than recreating them.
//
// Mounting a value:
//
//	doc := dom.NewDocument()
//	root := doc.CreateElement("div")
//	count := reactive.NewSignal(0)
//	frag, err := reconcile.SetChild(root, child.Of[int](count))
//	count.Set(1) // root's text node now reads "1", same node instance
//
// Reconciliation is synchronous and single-goroutine. A reactive sub-slot may
// re-enter SetChildStatic while an outer slot is still reconciling; every
// destructive mutation re-checks that the node is still attached to the
// parent, and a fragment always ends with the last computed state.
package reconcile
