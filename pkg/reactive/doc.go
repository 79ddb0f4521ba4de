// Package reactive provides the fine-grained reactive core Woby renders with.
//
// Dependencies are tracked automatically at runtime: reading a Signal while
// an Effect runs subscribes that effect, and writing the signal re-runs it.
// Unlike a scheduler-driven core, notification here is synchronous: Set
// returns only after every dependent effect has re-run (or, inside Batch,
// after the outermost batch completes). The renderer relies on this to keep
// the host tree consistent with state at every point a caller can observe.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	count := reactive.NewSignal(0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Set(5)          // Write (re-runs dependents now)
//
// Effect re-runs whenever a signal it read changes:
//
//	reactive.Subscribe(func() {
//	    fmt.Println("Count is:", count.Get())
//	})
//
// Owner scopes effects, cleanups and context values. Each effect run gets a
// fresh child scope, so effects created inside an effect are disposed before
// the next run:
//
//	reactive.Root(func(dispose func()) {
//	    reactive.SetContext(themeKey, "dark")
//	    ...
//	    defer dispose()
//	})
//
// # Thread Safety
//
// Signals may be read and written from any goroutine. The tracking context
// (current owner and listener) is per-goroutine, so a goroutine that needs
// the caller's scope must use WithOwner. Effects run on the goroutine that
// triggered them; renderers keep all writes on one goroutine.
package reactive
