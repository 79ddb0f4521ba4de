// Package suspense lets nested asynchronous work hold a boundary in its
// fallback state until everything under it has settled.
//
// A boundary owns a Data counter. Resources under it suspend through a
// Manager, which keeps its own per-boundary tally so overlapping fetches net
// out and a double settle cannot drive the count negative. When a boundary
// goes from idle to suspended it suspends its parent boundary as well, so an
// outer fallback can show even when the inner boundary has its own.
//
// Basic usage:
//
//	l := loop.New(nil)
//	page := suspense.Suspense(child.Text("loading..."), func() child.Child {
//	    user := suspense.UseResource(ctx, l, func(ctx context.Context) (*User, error) {
//	        return db.Users.Find(ctx, id)
//	    })
//	    return user.Match(
//	        suspense.OnReady(func(u *User) child.Child { return child.Text(u.Name) }),
//	        suspense.OnError[*User](func(err error) child.Child { return child.Text(err.Error()) }),
//	    )
//	})
//
// Swapping fallback and content is an ordinary child update; there is no
// DOM code in this package.
package suspense
