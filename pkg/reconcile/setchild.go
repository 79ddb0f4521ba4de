package reconcile

import (
	"log/slog"
	"time"

	"github.com/vango-dev/woby/internal/errors"
	"github.com/vango-dev/woby/pkg/child"
	"github.com/vango-dev/woby/pkg/dom"
	"github.com/vango-dev/woby/pkg/fragment"
)

// Reconciler applies child values to DOM slots.
type Reconciler struct {
	// HotReload makes a failed diff log and continue instead of returning
	// an error, so a half-edited component tree keeps rendering.
	HotReload bool

	// Logger receives swallowed errors. Nil means slog.Default().
	Logger *slog.Logger

	// Observer, if set, is told about every reconciliation.
	Observer Observer
}

// Default is the Reconciler used by the package-level functions.
var Default = &Reconciler{}

// SetChild binds c to parent using Default.
func SetChild(parent *dom.Node, c child.Child) (*fragment.Fragment, error) {
	return Default.SetChild(parent, c)
}

// SetChildStatic applies an already resolved value using Default.
func SetChildStatic(parent *dom.Node, frag *fragment.Fragment, c child.Child, dynamic bool) error {
	return Default.SetChildStatic(parent, frag, c, dynamic)
}

// SetChild binds c to a new slot at the end of parent and returns the slot's
// fragment. Reactive parts of c keep the slot up to date until the current
// reactive owner is disposed.
//
// The returned error covers the initial render only. Failures during later
// updates have no caller and are logged instead.
func (r *Reconciler) SetChild(parent *dom.Node, c child.Child) (*fragment.Fragment, error) {
	if err := checkParent(parent); err != nil {
		return nil, err
	}

	frag := fragment.Make()
	var firstErr error
	initial := true
	ResolveChild(parent.OwnerDocument(), c, func(value child.Child, dynamic bool) {
		err := r.apply(parent, frag, false, value, dynamic)
		if err == nil {
			return
		}
		if initial {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		r.report(err)
	}, false)
	initial = false

	return frag, firstErr
}

// SetChildStatic reconciles the nodes tracked by frag against c and updates
// frag to the result. c is normally a value delivered by ResolveChild;
// reactive items inside a list get nested slots of their own.
func (r *Reconciler) SetChildStatic(parent *dom.Node, frag *fragment.Fragment, c child.Child, dynamic bool) error {
	if err := checkParent(parent); err != nil {
		return err
	}
	return r.apply(parent, frag, false, c, dynamic)
}

// apply runs one reconciliation and reports it to the observer.
func (r *Reconciler) apply(parent *dom.Node, frag *fragment.Fragment, fragmentOnly bool, c child.Child, dynamic bool) error {
	if r.Observer == nil {
		_, err := r.setChildStatic(parent, frag, fragmentOnly, c, dynamic)
		return err
	}
	start := time.Now()
	path, err := r.setChildStatic(parent, frag, fragmentOnly, c, dynamic)
	r.Observer.ObserveReconcile(path, time.Since(start), err)
	return err
}

// setChildStatic does the work of SetChildStatic. With fragmentOnly set the
// result is recorded in frag but not inserted; the caller inserts it as part
// of an enclosing slot.
func (r *Reconciler) setChildStatic(parent *dom.Node, frag *fragment.Fragment, fragmentOnly bool, c child.Child, dynamic bool) (Path, error) {
	if !dynamic && c.IsVoid() {
		return PathStaticSkip, nil
	}

	doc := parent.OwnerDocument()
	prev := frag.GetChildren()
	prevLength := prev.Len()
	prevFirst := prev.First()
	prevLast := prev.Last()

	if prevLength == 0 {
		var node *dom.Node
		switch c.Kind() {
		case child.KindText:
			node = doc.CreateTextNode(c.TextValue())
		case child.KindNode:
			node = c.NodeValue()
		}
		if node != nil {
			if !fragmentOnly {
				if err := parent.AppendChild(node); err != nil {
					return PathInsert, errors.FromError(err, "W102")
				}
			}
			frag.ReplaceWithNode(node)
			return PathInsert, nil
		}
	}

	if prevLength == 1 && c.Kind() == child.KindText && prevFirst.Type() == dom.TextNode {
		prevFirst.SetNodeValue(c.TextValue())
		return PathText, nil
	}

	// Captured before anything moves.
	var prevSibling *dom.Node
	if prevLast != nil {
		prevSibling = prevLast.NextSibling()
	}

	var one [1]child.Child
	items := one[:0]
	switch c.Kind() {
	case child.KindList:
		items, _ = resolveArrays(c.Items(), nil)
	case child.KindVoid:
	default:
		one[0] = c
		items = one[:1]
	}

	next := fragment.Make()
	texts := textReuse{doc: doc, prev: frag}
	var err error
	for _, item := range items {
		switch item.Kind() {
		case child.KindText:
			next.PushNode(texts.node(item.TextValue()))
		case child.KindNode:
			next.PushNode(item.NodeValue())
		case child.KindReactive:
			sub := fragment.Make()
			next.PushFragment(sub)
			if subErr := r.bind(parent, sub, item); subErr != nil && err == nil {
				err = subErr
			}
		}
	}
	if err != nil {
		return PathDiff, err
	}

	nextChildren := next.GetChildren()
	nextLength := nextChildren.Len()
	prevIsPlaceholder := prevLength == 1 && prevFirst.Type() == dom.CommentNode

	if nextLength == 0 && prevIsPlaceholder {
		return PathPlaceholder, nil
	}

	if !fragmentOnly && (nextLength == 0 || prevIsPlaceholder) && ownsParent(parent, prev, prevFirst, prevLast) {
		parent.SetTextContent("")
		if nextLength == 0 {
			next.PushNode(doc.CreateComment(""))
			nextChildren = next.GetChildren()
		}
		for i, n := 0, nextChildren.Len(); i < n; i++ {
			if err := parent.AppendChild(nextChildren.At(i)); err != nil {
				return PathBulk, errors.FromError(err, "W102")
			}
		}
		frag.ReplaceWithFragment(next)
		return PathBulk, nil
	}

	if nextLength == 0 {
		next.PushNode(doc.CreateComment(""))
		nextChildren = next.GetChildren()
	}

	if !fragmentOnly {
		if err := Diff(parent, prev, nextChildren, prevSibling); err != nil {
			werr := errors.FromError(err, "W102")
			if !r.HotReload {
				return PathDiff, werr
			}
			r.logger().Error("reconcile failed",
				"code", werr.Code,
				"path", PathDiff.String(),
				"err", err)
		}
	}

	frag.ReplaceWithFragment(next)
	return PathDiff, nil
}

// bind resolves a reactive list item into its own nested slot. The first
// resolution only fills sub; the enclosing slot inserts those nodes. Later
// resolutions update the DOM directly.
func (r *Reconciler) bind(parent *dom.Node, sub *fragment.Fragment, item child.Child) error {
	var firstErr error
	initial := true
	ResolveChild(parent.OwnerDocument(), item, func(value child.Child, dynamic bool) {
		only := initial
		initial = false
		err := r.apply(parent, sub, only, value, dynamic)
		if err == nil {
			return
		}
		if only {
			firstErr = err
			return
		}
		r.report(err)
	}, false)
	initial = false
	return firstErr
}

// report handles an error nobody is waiting for.
func (r *Reconciler) report(err error) {
	r.logger().Error("reconcile failed", "code", errors.Code(err), "err", err)
}

func (r *Reconciler) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// ownsParent reports whether the slot's nodes are all of parent's children,
// so parent can be cleared wholesale.
func ownsParent(parent *dom.Node, prev fragment.Children, first, last *dom.Node) bool {
	if parent.ChildCount() != prev.Len() {
		return false
	}
	if prev.Len() == 0 {
		return true
	}
	return first.ParentNode() == parent && last.ParentNode() == parent
}

func checkParent(parent *dom.Node) error {
	if parent == nil {
		return errors.New("W101").WithDetail("parent is nil")
	}
	if !parent.CanHaveChildren() {
		return errors.New("W101").WithDetailf("%s node cannot have children", parent.Type())
	}
	return nil
}
