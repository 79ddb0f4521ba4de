package wobytest

import (
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/woby/pkg/child"
	"github.com/vango-dev/woby/pkg/dom"
	"github.com/vango-dev/woby/pkg/loop"
	"github.com/vango-dev/woby/pkg/reactive"
	"github.com/vango-dev/woby/pkg/reconcile"
)

// DefaultTimeout bounds Settle.
var DefaultTimeout = 5 * time.Second

// Harness is a child mounted into a <div> of its own document.
type Harness struct {
	t     testing.TB
	doc   *dom.Document
	root  *dom.Node
	loop  *loop.Loop
	owner *reactive.Owner
}

// Mount renders c with reconcile.Default. The render is disposed when the
// test ends.
func Mount(t testing.TB, c child.Child) *Harness {
	t.Helper()
	return MountWith(t, reconcile.Default, func(*Harness) child.Child { return c })
}

// MountWith renders the child returned by build, which runs under the
// render's owner. Use it when the child creates resources or list items
// that must be disposed with the render.
func MountWith(t testing.TB, r *reconcile.Reconciler, build func(h *Harness) child.Child) *Harness {
	t.Helper()
	doc := dom.NewDocument()
	h := &Harness{
		t:     t,
		doc:   doc,
		root:  doc.CreateElement("div"),
		loop:  loop.New(nil),
		owner: reactive.NewOwner(nil),
	}
	t.Cleanup(h.Dispose)

	var err error
	reactive.WithOwner(h.owner, func() {
		reactive.Untracked(func() {
			_, err = r.SetChild(h.root, build(h))
		})
	})
	if err != nil {
		t.Fatalf("mount failed: %v", err)
	}
	return h
}

// Doc returns the harness document.
func (h *Harness) Doc() *dom.Document { return h.doc }

// Root returns the element the child is mounted into.
func (h *Harness) Root() *dom.Node { return h.root }

// Loop returns the dispatcher resources should settle through.
func (h *Harness) Loop() *loop.Loop { return h.loop }

// HTML returns the rendered markup.
func (h *Harness) HTML() string { return h.root.InnerHTML() }

// Dispose stops all updates. It is idempotent.
func (h *Harness) Dispose() {
	h.owner.Dispose()
	h.loop.Close()
}

// Settle flushes the loop until done reports true, failing the test after
// DefaultTimeout.
func (h *Harness) Settle(done func() bool) {
	h.t.Helper()
	deadline := time.Now().Add(DefaultTimeout)
	for {
		h.loop.Flush()
		if done() {
			return
		}
		if time.Now().After(deadline) {
			h.t.Fatalf("did not settle within %s, got:\n%s", DefaultTimeout, truncate(h.HTML(), 500))
		}
		time.Sleep(time.Millisecond)
	}
}

// ResetStats zeroes the document's mutation counters.
func (h *Harness) ResetStats() { h.doc.ResetStats() }

// ExpectHTML asserts that the markup equals want.
func (h *Harness) ExpectHTML(want string) {
	h.t.Helper()
	if got := h.HTML(); got != want {
		h.t.Errorf("rendered output = %q, want %q", got, want)
	}
}

// ExpectContains asserts that the markup contains expected.
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	if html := h.HTML(); !strings.Contains(html, expected) {
		h.t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that the markup does not contain unexpected.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	if html := h.HTML(); strings.Contains(html, unexpected) {
		h.t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectStats asserts the mutation counters since the last ResetStats.
func (h *Harness) ExpectStats(want dom.Stats) {
	h.t.Helper()
	if got := h.doc.Stats(); got != want {
		h.t.Errorf("stats = %+v, want %+v", got, want)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
