package reconcile

import (
	"github.com/vango-dev/woby/pkg/child"
	"github.com/vango-dev/woby/pkg/dom"
	"github.com/vango-dev/woby/pkg/fragment"
	"github.com/vango-dev/woby/pkg/reactive"
)

// Setter receives a resolved value. Resolved values are Void, Text, Node, or
// a flat List whose items are Void, Text, Node, or Reactive children. dynamic is true
// when the value may be delivered again later.
type Setter func(value child.Child, dynamic bool)

// ResolveChild unwraps value and hands the result to setter.
//
// A reactive value is subscribed: it is evaluated now and again on every
// change, each time calling setter with dynamic set. A frozen value is
// evaluated once without tracking. Lists are flattened; their text leaves are
// left as text so SetChildStatic can match them against the text nodes the
// slot already holds. Anything else goes to setter unchanged.
//
// The subscription belongs to the current reactive owner and stops when that
// owner is disposed.
func ResolveChild(doc *dom.Document, value child.Child, setter Setter, dynamic bool) {
	switch {
	case value.IsFrozen():
		var next child.Child
		reactive.Untracked(func() {
			next = value.Call()
		})
		ResolveChild(doc, next, setter, dynamic)

	case value.IsReactive():
		reactive.Subscribe(func() {
			next := value.Call()
			reactive.Untracked(func() {
				ResolveChild(doc, next, setter, true)
			})
		})

	case value.Kind() == child.KindList:
		items, hasReactive := resolveArrays(value.Items(), nil)
		setter(child.List(items...), dynamic || hasReactive)

	default:
		setter(value, dynamic)
	}
}

// ResolveArraysAndStatics flattens nested lists and turns text leaves into
// text nodes. Reactive items are kept as they are; hasReactive reports
// whether any were found. When values holds no nested list and no text, it
// is returned as is.
func ResolveArraysAndStatics(doc *dom.Document, values []child.Child) (resolved []child.Child, hasReactive bool) {
	return resolveArrays(values, doc.CreateTextNode)
}

// resolveArrays flattens values. Text leaves become the nodes returned by
// text, or stay text when text is nil.
func resolveArrays(values []child.Child, text func(string) *dom.Node) ([]child.Child, bool) {
	hasReactive := false
	for i, v := range values {
		switch v.Kind() {
		case child.KindText:
			if text == nil {
				continue
			}
			fallthrough
		case child.KindList:
			out := make([]child.Child, i, len(values)+4)
			copy(out, values[:i])
			out, nested := appendResolved(out, values[i:], text)
			return out, hasReactive || nested
		case child.KindReactive:
			if v.IsReactive() {
				hasReactive = true
			}
		}
	}
	return values, hasReactive
}

func appendResolved(out, values []child.Child, text func(string) *dom.Node) ([]child.Child, bool) {
	hasReactive := false
	for _, v := range values {
		switch v.Kind() {
		case child.KindText:
			if text != nil {
				v = child.Node(text(v.TextValue()))
			}
			out = append(out, v)
		case child.KindList:
			var nested bool
			out, nested = appendResolved(out, v.Items(), text)
			hasReactive = hasReactive || nested
		case child.KindReactive:
			if v.IsReactive() {
				hasReactive = true
			}
			out = append(out, v)
		default:
			out = append(out, v)
		}
	}
	return out, hasReactive
}

// textReuse hands out the text nodes a slot held before an update, so that
// re-resolved strings keep their nodes. Nodes sharing a value are handed out
// in their previous order. Nodes of nested slots are never taken.
type textReuse struct {
	doc     *dom.Document
	prev    *fragment.Fragment
	byValue map[string][]*dom.Node
}

func (t *textReuse) node(value string) *dom.Node {
	if t.byValue == nil {
		t.byValue = make(map[string][]*dom.Node)
		t.prev.EachOwnNode(func(n *dom.Node) {
			if n.Type() == dom.TextNode {
				v := n.NodeValue()
				t.byValue[v] = append(t.byValue[v], n)
			}
		})
	}
	if free := t.byValue[value]; len(free) > 0 {
		t.byValue[value] = free[1:]
		return free[0]
	}
	return t.doc.CreateTextNode(value)
}
