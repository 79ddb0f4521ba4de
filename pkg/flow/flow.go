// Package flow provides control-flow children: conditionals, switches, and
// keyed lists whose items keep their nodes across updates.
package flow

import (
	"github.com/vango-dev/woby/pkg/child"
)

// When renders fn's result while cond holds. fn is called again each time
// cond becomes true.
func When(cond func() bool, fn func() child.Child) child.Child {
	return child.Reactive(func() child.Child {
		if cond() {
			return fn()
		}
		return child.Void
	})
}

// Unless renders c while cond does not hold.
func Unless(cond func() bool, c child.Child) child.Child {
	return child.If(cond, child.Void, c)
}

// Case represents a case in a Switch.
type Case[T comparable] struct {
	Value     T
	Child     child.Child
	IsDefault bool
}

// Match creates a case for Switch.
func Match[T comparable](value T, c child.Child) Case[T] {
	return Case[T]{Value: value, Child: c}
}

// Default creates the fallback case for Switch.
func Default[T comparable](c child.Child) Case[T] {
	return Case[T]{Child: c, IsDefault: true}
}

// Switch renders the case matching the current value of g, or the default
// case when none matches.
func Switch[T comparable](g child.Getter[T], cases ...Case[T]) child.Child {
	return child.Reactive(func() child.Child {
		value := g.Get()
		// First pass: look for matching value
		for _, c := range cases {
			if !c.IsDefault && c.Value == value {
				return c.Child
			}
		}
		for _, c := range cases {
			if c.IsDefault {
				return c.Child
			}
		}
		return child.Void
	})
}

// Repeat renders n children built by fn.
func Repeat(n int, fn func(i int) child.Child) child.Child {
	if n <= 0 {
		return child.Void
	}
	items := make([]child.Child, 0, n)
	for i := 0; i < n; i++ {
		if c := fn(i); !c.IsVoid() {
			items = append(items, c)
		}
	}
	return child.List(items...)
}

// Either returns first unless it is Void, otherwise second.
func Either(first, second child.Child) child.Child {
	if !first.IsVoid() {
		return first
	}
	return second
}
