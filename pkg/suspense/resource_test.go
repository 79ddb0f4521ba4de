package suspense

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vango-dev/woby/pkg/child"
	"github.com/vango-dev/woby/pkg/loop"
	"github.com/vango-dev/woby/pkg/reactive"
)

// waitDispatch blocks until l has queued work, then runs it.
func waitDispatch(t *testing.T, l *loop.Loop) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for l.Pending() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for dispatch")
		}
		time.Sleep(time.Millisecond)
	}
	l.Flush()
}

func gated[T any](value T, err error) (func(context.Context) (T, error), chan struct{}) {
	release := make(chan struct{})
	return func(ctx context.Context) (T, error) {
		select {
		case <-release:
			return value, err
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}, release
}

func TestResourceSuccess(t *testing.T) {
	l := loop.New(nil)
	fetch, release := gated("data", nil)

	var got string
	var r *Resource[string]
	reactive.Root(func(dispose func()) {
		defer dispose()
		r = UseResource(context.Background(), l, fetch, WithOnSuccess(func(s string) { got = s }))

		if r.State() != Loading || !r.Loading() {
			t.Errorf("State() = %v, want loading", r.State())
		}
		close(release)
		waitDispatch(t, l)

		if !r.IsReady() || r.Value() != "data" || r.Err() != nil {
			t.Errorf("State() = %v, Value() = %q, Err() = %v", r.State(), r.Value(), r.Err())
		}
		if got != "data" {
			t.Errorf("OnSuccess got %q, want %q", got, "data")
		}
	})
}

func TestResourceError(t *testing.T) {
	l := loop.New(nil)
	want := errors.New("fail")
	fetch, release := gated("", want)

	var got error
	reactive.Root(func(dispose func()) {
		defer dispose()
		r := UseResource(context.Background(), l, fetch, WithOnError[string](func(err error) { got = err }))
		close(release)
		waitDispatch(t, l)

		if !r.IsError() || r.Err() != want {
			t.Errorf("State() = %v, Err() = %v, want failed, %v", r.State(), r.Err(), want)
		}
		if got != want {
			t.Errorf("OnError got %v, want %v", got, want)
		}
	})
}

func TestResourceRetry(t *testing.T) {
	l := loop.New(nil)
	var calls atomic.Int32
	fetch := func(context.Context) (int, error) {
		if calls.Add(1) < 3 {
			return 0, errors.New("flaky")
		}
		return 42, nil
	}

	reactive.Root(func(dispose func()) {
		defer dispose()
		r := UseResource(context.Background(), l, fetch, WithRetry[int](2, time.Millisecond))
		waitDispatch(t, l)

		if r.Value() != 42 {
			t.Errorf("Value() = %d, want 42", r.Value())
		}
		if calls.Load() != 3 {
			t.Errorf("calls = %d, want 3", calls.Load())
		}
	})
}

func TestResourcesNetZeroUnderBoundary(t *testing.T) {
	l := loop.New(nil)
	fetchA, releaseA := gated(1, nil)
	fetchB, releaseB := gated(2, nil)

	var data *Data
	reactive.Root(func(dispose func()) {
		defer dispose()
		Suspense(child.Text("wait"), func() child.Child {
			data = Current()
			UseResource(context.Background(), l, fetchA)
			UseResource(context.Background(), l, fetchB)
			return child.Void
		})

		if !data.Active() || data.Count() != 2 {
			t.Fatalf("Active() = %v, Count() = %d, want true, 2", data.Active(), data.Count())
		}

		close(releaseA)
		waitDispatch(t, l)
		if !data.Active() {
			t.Fatal("boundary idle with one resource pending")
		}

		close(releaseB)
		waitDispatch(t, l)
		if data.Active() {
			t.Error("boundary active after both resources settled")
		}
	})
}

func TestResourceRefetchSupersedes(t *testing.T) {
	l := loop.New(nil)
	results := make(chan int, 2)
	fetch := func(ctx context.Context) (int, error) {
		select {
		case v := <-results:
			return v, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	var data *Data
	reactive.Root(func(dispose func()) {
		defer dispose()
		var r *Resource[int]
		Suspense(child.Void, func() child.Child {
			data = Current()
			r = UseResource(context.Background(), l, fetch)
			return child.Void
		})

		r.Refetch()
		if data.Count() != 1 {
			t.Errorf("Count() = %d after Refetch, want 1", data.Count())
		}

		results <- 1
		results <- 2
		waitDispatch(t, l)
		for l.Pending() > 0 || r.State() != Ready {
			waitDispatch(t, l)
		}
		if data.Active() {
			t.Error("boundary still active")
		}
	})
}

func TestResourceDisposeCancels(t *testing.T) {
	l := loop.New(nil)
	cancelled := make(chan struct{})
	fetch := func(ctx context.Context) (int, error) {
		<-ctx.Done()
		close(cancelled)
		return 0, ctx.Err()
	}

	var data *Data
	reactive.Root(func(dispose func()) {
		Suspense(child.Void, func() child.Child {
			data = Current()
			UseResource(context.Background(), l, fetch)
			return child.Void
		})
		dispose()
	})

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("fetch context not cancelled on dispose")
	}
	if data.Active() {
		t.Error("boundary still active after dispose")
	}
}

func TestResourceMatch(t *testing.T) {
	l := loop.New(nil)
	fetch, release := gated("ok", nil)

	reactive.Root(func(dispose func()) {
		defer dispose()
		r := UseResource(context.Background(), l, fetch)
		m := r.Match(
			OnLoadingOrPending[string](func() child.Child { return child.Text("...") }),
			OnReady(func(s string) child.Child { return child.Text(s) }),
		)
		if got := m.Peek().TextValue(); got != "..." {
			t.Errorf("Match = %q, want %q", got, "...")
		}
		close(release)
		waitDispatch(t, l)
		if got := m.Peek().TextValue(); got != "ok" {
			t.Errorf("Match = %q, want %q", got, "ok")
		}
	})
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Pending: "pending", Loading: "loading", Ready: "ready", Failed: "failed", State(9): "unknown"} {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", s, s.String(), want)
		}
	}
}
