package reconcile

import (
	"testing"

	"github.com/vango-dev/woby/pkg/child"
	"github.com/vango-dev/woby/pkg/dom"
	"github.com/vango-dev/woby/pkg/reactive"
)

func TestResolveArraysAndStaticsReturnsInputWhenFlat(t *testing.T) {
	doc := dom.NewDocument()
	values := []child.Child{
		child.Node(doc.CreateElement("a")),
		child.Void,
		child.Node(doc.CreateElement("b")),
	}

	got, hasReactive := ResolveArraysAndStatics(doc, values)
	if hasReactive {
		t.Error("hasReactive = true, want false")
	}
	if &got[0] != &values[0] {
		t.Error("ResolveArraysAndStatics copied a list that needed no changes")
	}
}

func TestResolveArraysAndStaticsFlattens(t *testing.T) {
	doc := dom.NewDocument()
	sig := reactive.NewSignal(1)
	values := []child.Child{
		child.Text("a"),
		child.List(child.Text("b"), child.List(child.Int(3))),
		child.Of[int](sig),
		child.Frozen(func() child.Child { return child.Text("f") }),
	}

	got, hasReactive := ResolveArraysAndStatics(doc, values)
	if !hasReactive {
		t.Error("hasReactive = false, want true")
	}
	if len(got) != 5 {
		t.Fatalf("len(resolved) = %d, want 5", len(got))
	}
	for i, want := range []string{"a", "b", "3"} {
		if got[i].Kind() != child.KindNode || got[i].NodeValue().NodeValue() != want {
			t.Errorf("resolved[%d] = %v, want text node %q", i, got[i], want)
		}
	}
	if !got[3].IsReactive() || !got[4].IsFrozen() {
		t.Errorf("resolved[3:] = %v, %v, want reactive then frozen", got[3], got[4])
	}
	if doc.Stats().Created != 3 {
		t.Errorf("Stats().Created = %d, want 3", doc.Stats().Created)
	}
}

func TestResolveArraysAndStaticsFrozenIsStatic(t *testing.T) {
	doc := dom.NewDocument()
	values := []child.Child{child.Frozen(func() child.Child { return child.Void })}
	if _, hasReactive := ResolveArraysAndStatics(doc, values); hasReactive {
		t.Error("hasReactive = true, want false for frozen children")
	}
}

func TestResolveChildReactive(t *testing.T) {
	doc := dom.NewDocument()
	sig := reactive.NewSignal("a")

	type call struct {
		value   string
		dynamic bool
	}
	var calls []call
	reactive.Root(func(dispose func()) {
		defer dispose()
		ResolveChild(doc, child.Of[string](sig), func(v child.Child, dynamic bool) {
			calls = append(calls, call{v.TextValue(), dynamic})
		}, false)
		sig.Set("b")
	})
	sig.Set("c")

	if len(calls) != 2 {
		t.Fatalf("setter called %d times, want 2", len(calls))
	}
	if calls[0] != (call{"a", true}) || calls[1] != (call{"b", true}) {
		t.Errorf("calls = %v, want [{a true} {b true}]", calls)
	}
}

func TestResolveChildNestedReactive(t *testing.T) {
	doc := dom.NewDocument()
	outer := reactive.NewSignal(0)
	inner := reactive.NewSignal("x")
	outerRuns := 0

	var last string
	reactive.Root(func(dispose func()) {
		defer dispose()
		ResolveChild(doc, child.Reactive(func() child.Child {
			outer.Get()
			outerRuns++
			return child.Of[string](inner)
		}), func(v child.Child, _ bool) {
			last = v.TextValue()
		}, false)

		inner.Set("y")
		if outerRuns != 1 {
			t.Errorf("outer ran %d times, want 1", outerRuns)
		}
		if last != "y" {
			t.Errorf("last = %q, want %q", last, "y")
		}
	})
}

func TestResolveChildStaticPassesDynamicThrough(t *testing.T) {
	doc := dom.NewDocument()
	var dynamic []bool
	setter := func(_ child.Child, d bool) { dynamic = append(dynamic, d) }

	ResolveChild(doc, child.Text("x"), setter, false)
	ResolveChild(doc, child.Frozen(func() child.Child { return child.Text("y") }), setter, true)
	ResolveChild(doc, child.List(child.Text("z")), setter, false)

	want := []bool{false, true, false}
	for i := range want {
		if dynamic[i] != want[i] {
			t.Errorf("dynamic[%d] = %v, want %v", i, dynamic[i], want[i])
		}
	}
}
