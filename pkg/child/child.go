// Package child defines Child, the value a slot of the tree is bound to.
//
// A Child is a closed tagged variant built once at the framework boundary:
//
//	Void              renders nothing
//	Text(s)           a string, or a number converted to its decimal form
//	Node(n)           a host node, inserted as is
//	List(c...)        an ordered sequence of children, nested to any depth
//	Reactive(fn)      a function re-evaluated whenever the signals it reads change
//
// The renderer switches on Kind instead of inspecting arbitrary values. From
// converts loosely typed values (strings, numbers, nodes, slices, functions)
// into a Child for callers that build children dynamically.
package child

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/vango-dev/woby/pkg/dom"
	"github.com/vango-dev/woby/pkg/reactive"
)

// Kind is the Child variant discriminator.
type Kind uint8

const (
	KindVoid Kind = iota
	KindText
	KindNode
	KindList
	KindReactive
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "Void"
	case KindText:
		return "Text"
	case KindNode:
		return "Node"
	case KindList:
		return "List"
	case KindReactive:
		return "Reactive"
	default:
		return "Unknown"
	}
}

// Child is the value bound to a slot. The zero value is Void.
type Child struct {
	kind   Kind
	text   string
	node   *dom.Node
	list   []Child
	fn     func() Child
	frozen bool
}

// Void is the child that renders nothing.
var Void = Child{}

// Text returns a text child.
func Text(s string) Child {
	return Child{kind: KindText, text: s}
}

// Int returns a text child holding the decimal form of n.
func Int(n int64) Child {
	return Child{kind: KindText, text: strconv.FormatInt(n, 10)}
}

// Float returns a text child holding the shortest decimal form of f.
func Float(f float64) Child {
	return Child{kind: KindText, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// BigInt returns a text child holding the decimal form of n.
func BigInt(n *big.Int) Child {
	if n == nil {
		return Void
	}
	return Child{kind: KindText, text: n.String()}
}

// Node returns a child that inserts n. A nil node is Void.
func Node(n *dom.Node) Child {
	if n == nil {
		return Void
	}
	return Child{kind: KindNode, node: n}
}

// List returns a child rendering each of children in order.
func List(children ...Child) Child {
	return Child{kind: KindList, list: children}
}

// Reactive returns a child that re-evaluates fn, tracking the signals it
// reads, and re-renders its slot when any of them changes.
func Reactive(fn func() Child) Child {
	if fn == nil {
		return Void
	}
	return Child{kind: KindReactive, fn: fn}
}

// Frozen returns a function child evaluated once, untracked. It is used for
// values already captured outside reactive tracking.
func Frozen(fn func() Child) Child {
	if fn == nil {
		return Void
	}
	return Child{kind: KindReactive, fn: fn, frozen: true}
}

// Kind returns the variant of c.
func (c Child) Kind() Kind { return c.kind }

// IsVoid reports whether c renders nothing.
func (c Child) IsVoid() bool { return c.kind == KindVoid }

// IsReactive reports whether c is a live reactive source. Frozen function
// children are not.
func (c Child) IsReactive() bool { return c.kind == KindReactive && !c.frozen }

// IsFrozen reports whether c is a function child evaluated once.
func (c Child) IsFrozen() bool { return c.kind == KindReactive && c.frozen }

// TextValue returns the text of a Text child.
func (c Child) TextValue() string { return c.text }

// NodeValue returns the node of a Node child.
func (c Child) NodeValue() *dom.Node { return c.node }

// Items returns the children of a List child. The slice must not be modified.
func (c Child) Items() []Child { return c.list }

// Call evaluates a function child in the current tracking context.
// Other kinds return c unchanged.
func (c Child) Call() Child {
	if c.kind != KindReactive {
		return c
	}
	return c.fn()
}

// Peek evaluates a function child without tracking, repeatedly, until the
// result is not a function child.
func (c Child) Peek() Child {
	for c.kind == KindReactive {
		fn := c.fn
		reactive.Untracked(func() {
			c = fn()
		})
	}
	return c
}

// String implements fmt.Stringer for debugging.
func (c Child) String() string {
	switch c.kind {
	case KindText:
		return strconv.Quote(c.text)
	case KindNode:
		return "Node(" + c.node.Type().String() + ")"
	case KindList:
		return fmt.Sprintf("List(%d)", len(c.list))
	case KindReactive:
		if c.frozen {
			return "Frozen"
		}
		return "Reactive"
	default:
		return "Void"
	}
}
