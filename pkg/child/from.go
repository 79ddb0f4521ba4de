package child

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/vango-dev/woby/pkg/dom"
)

// Getter is satisfied by reactive.Signal and anything else exposing a
// tracked read.
type Getter[T any] interface {
	Get() T
}

// Of returns a reactive child that renders the current value of g.
func Of[T any](g Getter[T]) Child {
	return Reactive(func() Child {
		return From(g.Get())
	})
}

// Map returns a reactive child rendering fn applied to the value of g.
func Map[T any](g Getter[T], fn func(T) Child) Child {
	return Reactive(func() Child {
		return fn(g.Get())
	})
}

// If returns a reactive child rendering then while cond is true and
// otherwise els.
func If(cond func() bool, then, els Child) Child {
	return Reactive(func() Child {
		if cond() {
			return then
		}
		return els
	})
}

// From converts a loosely typed value into a Child.
//
// nil and booleans are Void; strings and numbers are Text; *dom.Node is Node;
// slices become Lists; func() Child and func() any become Reactive children.
// Values of any other type are rendered as text with fmt.Sprint.
func From(v any) Child {
	switch x := v.(type) {
	case nil:
		return Void
	case Child:
		return x
	case bool:
		return Void
	case string:
		return Text(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Text(strconv.FormatUint(uint64(x), 10))
	case uint8:
		return Text(strconv.FormatUint(uint64(x), 10))
	case uint16:
		return Text(strconv.FormatUint(uint64(x), 10))
	case uint32:
		return Text(strconv.FormatUint(uint64(x), 10))
	case uint64:
		return Text(strconv.FormatUint(x, 10))
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case *big.Int:
		return BigInt(x)
	case *dom.Node:
		return Node(x)
	case []Child:
		return List(x...)
	case []*dom.Node:
		items := make([]Child, len(x))
		for i, n := range x {
			items[i] = Node(n)
		}
		return List(items...)
	case []string:
		items := make([]Child, len(x))
		for i, s := range x {
			items[i] = Text(s)
		}
		return List(items...)
	case []int:
		items := make([]Child, len(x))
		for i, n := range x {
			items[i] = Int(int64(n))
		}
		return List(items...)
	case []any:
		items := make([]Child, len(x))
		for i, item := range x {
			items[i] = From(item)
		}
		return List(items...)
	case func() Child:
		return Reactive(x)
	case func() any:
		return Reactive(func() Child { return From(x()) })
	case func() string:
		return Reactive(func() Child { return Text(x()) })
	case fmt.Stringer:
		return Text(x.String())
	default:
		return Text(fmt.Sprint(v))
	}
}
