package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for a goroutine.
type trackingContext struct {
	// owner receives effects, cleanups and context values created now.
	owner *Owner

	// listener is subscribed by signal reads. nil means untracked.
	listener Listener

	// batchDepth tracks nested Batch calls.
	batchDepth int

	// pending accumulates listeners to notify when the batch completes.
	pending []Listener
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// goroutineID parses the current goroutine ID from the runtime stack header
// ("goroutine <id> [...").
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// tracking returns the tracking context for the current goroutine,
// creating it on first use.
func tracking() *trackingContext {
	gid := goroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}
	ctx := &trackingContext{}
	actual, _ := trackingContexts.LoadOrStore(gid, ctx)
	return actual.(*trackingContext)
}

// ReleaseGoroutine drops the tracking context of the calling goroutine.
// Long-lived worker goroutines that touched reactive state call it on exit.
func ReleaseGoroutine() {
	trackingContexts.Delete(goroutineID())
}

func currentListener() Listener {
	return tracking().listener
}

// CurrentOwner returns the owner new effects and cleanups attach to, or nil.
func CurrentOwner() *Owner {
	return tracking().owner
}

// WithOwner runs fn with owner as the current owner.
// Goroutines that create effects for a component use it to adopt that
// component's scope.
func WithOwner(owner *Owner, fn func()) {
	ctx := tracking()
	old := ctx.owner
	ctx.owner = owner
	defer func() { ctx.owner = old }()
	fn()
}

// Untracked runs fn without tracking signal reads as dependencies.
func Untracked(fn func()) {
	ctx := tracking()
	old := ctx.listener
	ctx.listener = nil
	defer func() { ctx.listener = old }()
	fn()
}

// Tracking reports whether signal reads currently create subscriptions.
func Tracking() bool {
	return currentListener() != nil
}
