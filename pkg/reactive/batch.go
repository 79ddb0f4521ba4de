package reactive

// Batch groups signal writes so dependents run once, after the outermost
// batch returns, with every write applied.
//
//	reactive.Batch(func() {
//	    first.Set("John")
//	    last.Set("Doe")
//	}) // dependents of both run once here
func Batch(fn func()) {
	ctx := tracking()
	ctx.batchDepth++

	defer func() {
		ctx.batchDepth--
		if ctx.batchDepth == 0 {
			flushPending(ctx)
		}
	}()

	fn()
}

// flushPending notifies each queued listener once, in queue order. Listeners
// queued while flushing are drained in the same call.
func flushPending(ctx *trackingContext) {
	for len(ctx.pending) > 0 {
		updates := ctx.pending
		ctx.pending = nil

		seen := make(map[uint64]bool, len(updates))
		for _, l := range updates {
			id := l.ID()
			if seen[id] {
				continue
			}
			seen[id] = true
			l.MarkDirty()
		}
	}
}

// notify marks listeners dirty now, or queues them inside a batch.
func notify(subs []Listener) {
	ctx := tracking()
	if ctx.batchDepth > 0 {
		ctx.pending = append(ctx.pending, subs...)
		return
	}
	for _, l := range subs {
		l.MarkDirty()
	}
}
