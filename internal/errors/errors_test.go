package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New("W101")

	if err.Code != "W101" {
		t.Errorf("Code = %v, want W101", err.Code)
	}
	if err.Category != CategoryRuntime {
		t.Errorf("Category = %v, want %v", err.Category, CategoryRuntime)
	}
	if err.Message != "Invalid mutation target" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("W999")
	if err.Message != "Unknown error" {
		t.Errorf("Message = %q, want Unknown error", err.Message)
	}
}

func TestErrorString(t *testing.T) {
	err := New("W103").Wrap(stderrors.New("boom"))
	if got := err.Error(); got != "W103: Node not found: boom" {
		t.Errorf("Error() = %q", got)
	}

	plain := Newf(CategoryCLI, "bad %s", "thing")
	if got := plain.Error(); got != "bad thing" {
		t.Errorf("Error() = %q, want bad thing", got)
	}
}

func TestIsMatchesCode(t *testing.T) {
	sentinel := New("W103")
	err := New("W102").Wrap(New("W103").WithDetail("ref is detached"))

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should see W103 through the W102 wrapper")
	}
	if stderrors.Is(err, New("W104")) {
		t.Error("errors.Is should not match an unrelated code")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "W102") != nil {
		t.Error("FromError(nil) should be nil")
	}

	cause := stderrors.New("cause")
	err := FromError(cause, "W102")
	if err.Code != "W102" || err.Wrapped != cause {
		t.Errorf("FromError = %+v", err)
	}

	same := New("W102")
	if FromError(same, "W102") != same {
		t.Error("FromError should not rewrap an error with the same code")
	}
}

func TestCode(t *testing.T) {
	if got := Code(New("W201")); got != "W201" {
		t.Errorf("Code = %q, want W201", got)
	}
	if got := Code(stderrors.New("plain")); got != "" {
		t.Errorf("Code = %q, want empty", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("W101").
		WithDetail("parent is a #text node").
		WithSuggestion("Mount into an element").
		Format()

	for _, want := range []string{"✗ W101 Invalid mutation target [runtime]", "  parent is a #text node", "→ Mount into an element"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	got := New("W103").WithDetail("ref").FormatCompact()
	if got != "W103: Node not found (ref)" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six seven", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should wrap to nil")
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) < 6 {
		t.Errorf("expected at least 6 codes, got %d", len(codes))
	}
	if _, ok := GetTemplate("W301"); !ok {
		t.Error("W301 should be registered")
	}
}

func TestFormatCauseChain(t *testing.T) {
	DisableColors()
	defer EnableColors()

	out := New("W102").Wrap(New("W103").WithDetail("ref").Wrap(stderrors.New("gone"))).Format()

	for _, want := range []string{"caused by W103: Node not found (ref)", "caused by gone"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFprintPlainError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	Fprint(&b, stderrors.New("boom"))
	if b.String() != "✗ boom\n" {
		t.Errorf("Fprint() = %q", b.String())
	}
}
