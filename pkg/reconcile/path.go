package reconcile

import "time"

// Path identifies the strategy a reconciliation took.
type Path uint8

const (
	// PathStaticSkip: a static Void value, nothing to do.
	PathStaticSkip Path = iota
	// PathInsert: an empty slot received a single text or node.
	PathInsert
	// PathText: a single text node was updated in place.
	PathText
	// PathPlaceholder: an empty result kept the existing placeholder.
	PathPlaceholder
	// PathBulk: the parent was cleared and refilled.
	PathBulk
	// PathDiff: the sequence differ ran.
	PathDiff
)

// String returns the path name used in logs and metric labels.
func (p Path) String() string {
	switch p {
	case PathStaticSkip:
		return "static-skip"
	case PathInsert:
		return "insert"
	case PathText:
		return "text"
	case PathPlaceholder:
		return "placeholder"
	case PathBulk:
		return "bulk"
	case PathDiff:
		return "diff"
	default:
		return "unknown"
	}
}

// Paths lists every Path in declaration order.
var Paths = []Path{PathStaticSkip, PathInsert, PathText, PathPlaceholder, PathBulk, PathDiff}

// Observer receives one call per reconciliation of a slot, including nested
// slots. err is non-nil when the reconciliation failed, whether or not the
// error was swallowed.
type Observer interface {
	ObserveReconcile(path Path, elapsed time.Duration, err error)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(path Path, elapsed time.Duration, err error)

// ObserveReconcile calls f.
func (f ObserverFunc) ObserveReconcile(path Path, elapsed time.Duration, err error) {
	f(path, elapsed, err)
}
