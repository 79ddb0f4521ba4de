// Package wobytest provides testing helpers for code that renders children.
//
// A Harness mounts a child into a fresh document, disposes it when the test
// ends, and asserts on the resulting markup and mutation counts.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    count := reactive.NewSignal(0)
//	    h := wobytest.Mount(t, child.Of[int](count))
//	    h.ExpectHTML("0")
//
//	    h.ResetStats()
//	    count.Set(1)
//	    h.ExpectHTML("1")
//	    h.ExpectStats(dom.Stats{TextWrites: 1})
//	}
//
// # Asynchronous Work
//
// Resources settle through the harness loop. Settle flushes it until a
// condition holds:
//
//	h := wobytest.Mount(t, view)
//	h.Settle(func() bool { return res.IsReady() })
//	h.ExpectContains("loaded")
package wobytest
