package flow

import (
	"testing"

	"github.com/vango-dev/woby/pkg/child"
	"github.com/vango-dev/woby/pkg/dom"
	"github.com/vango-dev/woby/pkg/reactive"
	"github.com/vango-dev/woby/pkg/reconcile"
)

func render(t *testing.T, c func(doc *dom.Document) child.Child) (*dom.Document, *dom.Node, func()) {
	t.Helper()
	doc := dom.NewDocument()
	parent := doc.CreateElement("div")
	var dispose func()
	reactive.Root(func(d func()) {
		dispose = d
		if _, err := reconcile.SetChild(parent, c(doc)); err != nil {
			t.Fatalf("SetChild() error = %v", err)
		}
	})
	return doc, parent, dispose
}

func TestForReordersAndClears(t *testing.T) {
	items := reactive.NewSignal([]int{1, 2, 3})
	doc, parent, dispose := render(t, func(doc *dom.Document) child.Child {
		return For[int](doc, items, func(n int) child.Child {
			return child.Int(int64(n))
		})
	})
	defer dispose()

	if got := parent.InnerHTML(); got != "123" {
		t.Fatalf("InnerHTML() = %q, want %q", got, "123")
	}
	first := append([]*dom.Node(nil), parent.ChildNodes()...)
	for _, n := range first {
		if n.Type() != dom.TextNode {
			t.Fatalf("child type = %v, want text", n.Type())
		}
	}
	doc.ResetStats()

	items.Set([]int{3, 2, 1})
	if got := parent.InnerHTML(); got != "321" {
		t.Errorf("InnerHTML() = %q, want %q", got, "321")
	}
	for i, n := range parent.ChildNodes() {
		if n != first[2-i] {
			t.Errorf("child %d is a new node, want the original", i)
		}
	}
	if stats := doc.Stats(); stats.Created != 0 || stats.Removed != 0 || stats.Replaced != 0 {
		t.Errorf("Stats() = %+v, want moves only", stats)
	}

	items.Set([]int{})
	if len(parent.ChildNodes()) != 1 || parent.FirstChild().Type() != dom.CommentNode {
		t.Errorf("InnerHTML() = %q, want a single placeholder", parent.InnerHTML())
	}
}

func TestForDisposesRemovedItems(t *testing.T) {
	items := reactive.NewSignal([]string{"a", "b"})
	disposed := map[string]int{}
	_, _, dispose := render(t, func(doc *dom.Document) child.Child {
		return For[string](doc, items, func(s string) child.Child {
			reactive.OnCleanup(func() { disposed[s]++ })
			return child.Text(s)
		})
	})

	items.Set([]string{"b"})
	if disposed["a"] != 1 || disposed["b"] != 0 {
		t.Errorf("disposed = %v, want only a", disposed)
	}

	dispose()
	if disposed["b"] != 1 {
		t.Errorf("disposed[b] = %d, want 1 after dispose", disposed["b"])
	}
}

func TestForDuplicateValues(t *testing.T) {
	items := reactive.NewSignal([]string{"x", "x"})
	_, parent, dispose := render(t, func(doc *dom.Document) child.Child {
		return For[string](doc, items, func(s string) child.Child {
			return child.Text(s)
		})
	})
	defer dispose()

	if len(parent.ChildNodes()) != 2 {
		t.Fatalf("len(ChildNodes()) = %d, want 2", len(parent.ChildNodes()))
	}
	if parent.ChildNodes()[0] == parent.ChildNodes()[1] {
		t.Error("duplicate values share a node")
	}
}

func TestSwitch(t *testing.T) {
	mode := reactive.NewSignal("a")
	_, parent, dispose := render(t, func(*dom.Document) child.Child {
		return Switch[string](mode,
			Match("a", child.Text("first")),
			Match("b", child.Text("second")),
			Default[string](child.Text("other")),
		)
	})
	defer dispose()

	for _, tt := range []struct{ mode, want string }{
		{"a", "first"},
		{"b", "second"},
		{"z", "other"},
	} {
		mode.Set(tt.mode)
		if got := parent.InnerHTML(); got != tt.want {
			t.Errorf("mode %q: InnerHTML() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestWhenAndUnless(t *testing.T) {
	on := reactive.NewSignal(false)
	_, parent, dispose := render(t, func(*dom.Document) child.Child {
		return child.List(
			When(on.Get, func() child.Child { return child.Text("on") }),
			Unless(on.Get, child.Text("off")),
		)
	})
	defer dispose()

	if got := parent.InnerHTML(); got != "<!---->off" {
		t.Errorf("InnerHTML() = %q, want %q", got, "<!---->off")
	}
	on.Set(true)
	if got := parent.InnerHTML(); got != "on<!---->" {
		t.Errorf("InnerHTML() = %q, want %q", got, "on<!---->")
	}
}

func TestRepeatAndEither(t *testing.T) {
	c := Repeat(3, func(i int) child.Child {
		if i == 1 {
			return child.Void
		}
		return child.Int(int64(i))
	})
	if len(c.Items()) != 2 {
		t.Errorf("len(Items()) = %d, want 2", len(c.Items()))
	}
	if !Repeat(0, nil).IsVoid() {
		t.Error("Repeat(0) is not Void")
	}
	if Either(child.Void, child.Text("b")).TextValue() != "b" {
		t.Error("Either(Void, b) != b")
	}
	if Either(child.Text("a"), child.Text("b")).TextValue() != "a" {
		t.Error("Either(a, b) != a")
	}
}
