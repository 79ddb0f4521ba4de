package suspense

import (
	"github.com/vango-dev/woby/pkg/child"
	"github.com/vango-dev/woby/pkg/reactive"
)

// Props configures a Boundary.
type Props struct {
	// When, if set, suspends the boundary while it returns true, on top of
	// any resource under it.
	When func() bool

	// Fallback renders while the boundary is suspended.
	Fallback child.Child

	// Children builds the content. It runs once, immediately, inside the
	// boundary so resources it creates find it.
	Children func() child.Child
}

// Boundary creates a suspense boundary and returns the child to mount for
// it: Fallback while anything under the boundary is pending, the content
// otherwise. The content is built eagerly even while the fallback shows.
func Boundary(p Props) child.Child {
	data := NewData(Current())

	owner := reactive.NewOwner(reactive.CurrentOwner())
	owner.SetValue(contextKey{}, data)
	owner.OnCleanup(data.release)

	content := child.Void
	reactive.WithOwner(owner, func() {
		if p.When != nil {
			m := NewManager()
			reactive.OnCleanup(m.Unsuspend)
			reactive.Subscribe(func() {
				if p.When() {
					if m.Held(data) == 0 {
						m.Suspend()
					}
				} else {
					m.Unsuspend()
				}
			})
		}
		if p.Children != nil {
			reactive.Untracked(func() {
				content = p.Children()
			})
		}
	})

	return child.Reactive(func() child.Child {
		if data.Active() {
			return p.Fallback
		}
		// Reactive parts of the content resolve under this run's scope;
		// make the boundary visible to them.
		reactive.SetContext(contextKey{}, data)
		return content
	})
}

// Suspense is Boundary without a When condition.
func Suspense(fallback child.Child, children func() child.Child) child.Child {
	return Boundary(Props{Fallback: fallback, Children: children})
}
