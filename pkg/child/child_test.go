package child

import (
	"errors"
	"math/big"
	"testing"

	"github.com/vango-dev/woby/pkg/dom"
	"github.com/vango-dev/woby/pkg/reactive"
)

func TestKindString(t *testing.T) {
	if KindReactive.String() != "Reactive" || Kind(99).String() != "Unknown" {
		t.Error("unexpected Kind strings")
	}
}

func TestZeroValueIsVoid(t *testing.T) {
	var c Child
	if !c.IsVoid() || c.Kind() != KindVoid {
		t.Errorf("zero Child kind = %v, want Void", c.Kind())
	}
}

func TestFrom(t *testing.T) {
	doc := dom.NewDocument()
	node := doc.CreateElement("p")

	tests := []struct {
		name string
		in   any
		kind Kind
		text string
	}{
		{"nil", nil, KindVoid, ""},
		{"true", true, KindVoid, ""},
		{"false", false, KindVoid, ""},
		{"string", "hi", KindText, "hi"},
		{"int", 42, KindText, "42"},
		{"negative", int64(-7), KindText, "-7"},
		{"uint", uint8(255), KindText, "255"},
		{"float", 1.5, KindText, "1.5"},
		{"bigint", new(big.Int).Lsh(big.NewInt(1), 70), KindText, "1180591620717411303424"},
		{"node", node, KindNode, ""},
		{"nil node", (*dom.Node)(nil), KindVoid, ""},
		{"opaque", struct{ A int }{3}, KindText, "{3}"},
		{"stringer", errString("x"), KindText, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := From(tt.in)
			if c.Kind() != tt.kind {
				t.Errorf("From(%v).Kind() = %v, want %v", tt.in, c.Kind(), tt.kind)
			}
			if c.TextValue() != tt.text {
				t.Errorf("From(%v).TextValue() = %q, want %q", tt.in, c.TextValue(), tt.text)
			}
		})
	}
}

type errString string

func (e errString) String() string { return string(e) }

func TestFromSlices(t *testing.T) {
	c := From([]any{"a", 1, nil, []any{"b"}})
	if c.Kind() != KindList || len(c.Items()) != 4 {
		t.Fatalf("From([]any) = %v", c)
	}
	if c.Items()[3].Kind() != KindList {
		t.Error("nested slice should stay nested")
	}
	if got := From([]int{1, 2}).Items()[1].TextValue(); got != "2" {
		t.Errorf("From([]int)[1] = %q, want 2", got)
	}
}

func TestFromFunctions(t *testing.T) {
	c := From(func() any { return 5 })
	if !c.IsReactive() {
		t.Fatal("func() any should be reactive")
	}
	if got := c.Call(); got.TextValue() != "5" {
		t.Errorf("Call() = %v, want 5", got)
	}
	if From(func() string { return "s" }).Call().TextValue() != "s" {
		t.Error("func() string should render its result")
	}
}

func TestFrozen(t *testing.T) {
	c := Frozen(func() Child { return Text("x") })
	if c.IsReactive() || !c.IsFrozen() {
		t.Error("Frozen child should not be a reactive source")
	}
	if Reactive(nil).Kind() != KindVoid || Frozen(nil).Kind() != KindVoid {
		t.Error("nil functions should be Void")
	}
}

func TestOfTracksSignal(t *testing.T) {
	s := reactive.NewSignal(1)
	c := Of[int](s)

	var got []string
	e := reactive.Subscribe(func() {
		got = append(got, c.Call().TextValue())
	})
	defer e.Dispose()

	s.Set(2)
	if len(got) != 2 || got[1] != "2" {
		t.Errorf("got = %v, want [1 2]", got)
	}
}

func TestPeekUnwrapsNestedFunctions(t *testing.T) {
	s := reactive.NewSignal("v")
	c := Reactive(func() Child {
		return Reactive(func() Child { return Text(s.Get()) })
	})

	runs := 0
	e := reactive.Subscribe(func() {
		_ = c.Peek()
		runs++
	})
	defer e.Dispose()

	s.Set("w")
	if runs != 1 {
		t.Errorf("runs = %d, want 1 (Peek must not track)", runs)
	}
	if c.Peek().TextValue() != "w" {
		t.Errorf("Peek() = %v, want w", c.Peek())
	}
}

func TestIf(t *testing.T) {
	on := reactive.NewSignal(true)
	c := If(on.Get, Text("yes"), Text("no"))
	if c.Call().TextValue() != "yes" {
		t.Error("If should render then branch")
	}
	on.Set(false)
	if c.Call().TextValue() != "no" {
		t.Error("If should render else branch")
	}
}

func TestMap(t *testing.T) {
	s := reactive.NewSignal(errors.New("boom"))
	c := Map[error](s, func(err error) Child { return Text(err.Error()) })
	if c.Call().TextValue() != "boom" {
		t.Errorf("Map = %v", c.Call())
	}
}
