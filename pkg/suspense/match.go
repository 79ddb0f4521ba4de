package suspense

import "github.com/vango-dev/woby/pkg/child"

// Match renders the first handler that accepts the resource's state. It is
// reactive: the rendered child follows state changes.
func (r *Resource[T]) Match(handlers ...Handler[T]) child.Child {
	return child.Reactive(func() child.Child {
		for _, h := range handlers {
			if c, ok := h.handle(r); ok {
				return c
			}
		}
		return child.Void
	})
}

// Handler renders a resource in a particular state.
type Handler[T any] interface {
	handle(*Resource[T]) (child.Child, bool)
}

type stateHandler[T any] struct {
	states []State
	fn     func(*Resource[T]) child.Child
}

func (h stateHandler[T]) handle(r *Resource[T]) (child.Child, bool) {
	s := r.State()
	for _, want := range h.states {
		if s == want {
			return h.fn(r), true
		}
	}
	return child.Void, false
}

// OnPending handles the Pending state.
func OnPending[T any](fn func() child.Child) Handler[T] {
	return stateHandler[T]{states: []State{Pending}, fn: func(*Resource[T]) child.Child { return fn() }}
}

// OnLoading handles the Loading state.
func OnLoading[T any](fn func() child.Child) Handler[T] {
	return stateHandler[T]{states: []State{Loading}, fn: func(*Resource[T]) child.Child { return fn() }}
}

// OnLoadingOrPending handles both Loading and Pending states.
func OnLoadingOrPending[T any](fn func() child.Child) Handler[T] {
	return stateHandler[T]{states: []State{Pending, Loading}, fn: func(*Resource[T]) child.Child { return fn() }}
}

// OnError handles the Failed state.
func OnError[T any](fn func(error) child.Child) Handler[T] {
	return stateHandler[T]{states: []State{Failed}, fn: func(r *Resource[T]) child.Child { return fn(r.err.Get()) }}
}

// OnReady handles the Ready state.
func OnReady[T any](fn func(T) child.Child) Handler[T] {
	return stateHandler[T]{states: []State{Ready}, fn: func(r *Resource[T]) child.Child { return fn(r.data.Get()) }}
}
