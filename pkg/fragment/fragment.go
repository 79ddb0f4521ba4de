// Package fragment tracks the host nodes that currently occupy a child slot.
//
// A Fragment is shape-polymorphic to avoid allocating a slice for the common
// zero- and one-child cases. Its values are, by length:
//
//	0   nothing
//	1   a single node, or a single nested Fragment (fragmented)
//	2+  a slice of nodes, or of nodes and nested Fragments (fragmented)
//
// Nested Fragments are sub-slots (one per reactive entry of a list) and are
// flattened by GetChildren. Length counts logical entries pushed, not nodes.
//
// Fragments are owned by exactly one slot and are not safe for concurrent use.
package fragment

import "github.com/vango-dev/woby/pkg/dom"

// Fragment records the node(s) currently live in one child slot.
type Fragment struct {
	length     int
	fragmented bool

	// node holds the single entry when length == 1 and !fragmented.
	node *dom.Node

	// frag holds the single entry when length == 1 and fragmented.
	frag *Fragment

	// nodes holds the entries when length >= 2 and !fragmented.
	nodes []*dom.Node

	// values holds the entries when length >= 2 and fragmented. Each entry
	// is a *dom.Node or a *Fragment.
	values []any
}

// Children is the flattened content of a Fragment: either a single node
// (Single) or a flat slice of nodes (Many). The zero value is empty.
type Children struct {
	Single *dom.Node
	Many   []*dom.Node
}

// emptyNodes is shared by every empty Children value.
var emptyNodes = []*dom.Node{}

// Len returns the number of nodes.
func (c Children) Len() int {
	if c.Single != nil {
		return 1
	}
	return len(c.Many)
}

// At returns the i-th node.
func (c Children) At(i int) *dom.Node {
	if c.Single != nil {
		if i != 0 {
			panic("fragment: index out of range")
		}
		return c.Single
	}
	return c.Many[i]
}

// First returns the first node, or nil.
func (c Children) First() *dom.Node {
	if c.Single != nil {
		return c.Single
	}
	if len(c.Many) == 0 {
		return nil
	}
	return c.Many[0]
}

// Last returns the last node, or nil.
func (c Children) Last() *dom.Node {
	if c.Single != nil {
		return c.Single
	}
	if len(c.Many) == 0 {
		return nil
	}
	return c.Many[len(c.Many)-1]
}

// Slice returns the nodes as a slice. A Single is wrapped in a new slice.
func (c Children) Slice() []*dom.Node {
	if c.Single != nil {
		return []*dom.Node{c.Single}
	}
	return c.Many
}

// Make returns an empty Fragment.
func Make() *Fragment {
	return &Fragment{}
}

// MakeWithNode returns a Fragment holding node.
func MakeWithNode(node *dom.Node) *Fragment {
	return &Fragment{length: 1, node: node}
}

// MakeWithFragment returns a Fragment whose only entry is the sub-slot f.
func MakeWithFragment(f *Fragment) *Fragment {
	return &Fragment{length: 1, fragmented: true, frag: f}
}

// Len returns the number of logical entries pushed.
func (f *Fragment) Len() int { return f.length }

// Fragmented reports whether any entry is a nested Fragment.
func (f *Fragment) Fragmented() bool { return f.fragmented }

// PushNode appends a node entry.
func (f *Fragment) PushNode(node *dom.Node) {
	f.push(node)
}

// PushFragment appends a nested sub-slot entry and marks f fragmented.
func (f *Fragment) PushFragment(sub *Fragment) {
	f.fragmented = true
	f.push(sub)
}

// PushValue appends an entry that is either a *dom.Node or a *Fragment.
func (f *Fragment) PushValue(v any) {
	switch x := v.(type) {
	case *dom.Node:
		f.PushNode(x)
	case *Fragment:
		f.PushFragment(x)
	default:
		panic("fragment: PushValue expects *dom.Node or *Fragment")
	}
}

func (f *Fragment) push(v any) {
	switch {
	case f.length == 0:
		switch x := v.(type) {
		case *dom.Node:
			f.node = x
		case *Fragment:
			f.frag = x
		}
	case f.length == 1:
		first := f.single()
		f.node, f.frag = nil, nil
		if f.fragmented {
			f.values = []any{first, v}
		} else {
			f.nodes = []*dom.Node{first.(*dom.Node), v.(*dom.Node)}
		}
	case f.fragmented:
		if f.nodes != nil {
			// First nested entry: upgrade the node slice.
			f.values = make([]any, len(f.nodes), len(f.nodes)+1)
			for i, n := range f.nodes {
				f.values[i] = n
			}
			f.nodes = nil
		}
		f.values = append(f.values, v)
	default:
		f.nodes = append(f.nodes, v.(*dom.Node))
	}
	f.length++
}

func (f *Fragment) single() any {
	if f.frag != nil {
		return f.frag
	}
	return f.node
}

// GetChildren flattens f to host nodes. Empty fragments return a shared
// empty slice; unfragmented ones return their stored nodes without
// recursion. The returned slice must not be modified.
func (f *Fragment) GetChildren() Children {
	switch {
	case f.length == 0:
		return Children{Many: emptyNodes}
	case !f.fragmented && f.length == 1:
		return Children{Single: f.node}
	case !f.fragmented:
		return Children{Many: f.nodes}
	case f.length == 1:
		return f.frag.GetChildren()
	}
	var nodes []*dom.Node
	for _, v := range f.values {
		nodes = appendFlat(nodes, v)
	}
	if nodes == nil {
		nodes = emptyNodes
	}
	return Children{Many: nodes}
}

// EachOwnNode calls fn for every node entry of f in order. Nodes inside
// nested Fragments are skipped.
func (f *Fragment) EachOwnNode(fn func(*dom.Node)) {
	switch {
	case f.length == 0:
	case f.length == 1 && !f.fragmented:
		fn(f.node)
	case f.length == 1:
	case !f.fragmented:
		for _, n := range f.nodes {
			fn(n)
		}
	default:
		for _, v := range f.values {
			if n, ok := v.(*dom.Node); ok {
				fn(n)
			}
		}
	}
}

func appendFlat(nodes []*dom.Node, v any) []*dom.Node {
	switch x := v.(type) {
	case *dom.Node:
		return append(nodes, x)
	case *Fragment:
		return x.appendAll(nodes)
	}
	return nodes
}

func (f *Fragment) appendAll(nodes []*dom.Node) []*dom.Node {
	switch {
	case f.length == 0:
		return nodes
	case f.length == 1 && f.fragmented:
		return f.frag.appendAll(nodes)
	case f.length == 1:
		return append(nodes, f.node)
	case !f.fragmented:
		return append(nodes, f.nodes...)
	}
	for _, v := range f.values {
		nodes = appendFlat(nodes, v)
	}
	return nodes
}

// ReplaceWithNode overwrites f so that it holds node only.
func (f *Fragment) ReplaceWithNode(node *dom.Node) {
	*f = Fragment{length: 1, node: node}
}

// ReplaceWithFragment overwrites f with the state of next. next must not be
// used afterwards.
func (f *Fragment) ReplaceWithFragment(next *Fragment) {
	*f = *next
}
