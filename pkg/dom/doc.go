// Package dom implements the host node tree that Woby renders into.
//
// The tree mirrors the subset of the browser DOM the reconciler relies on:
// elements, text nodes, comments and document fragments, each with an
// ordered child list and a parent pointer. Mutations go through the same
// primitives a browser exposes (InsertBefore, RemoveChild, ReplaceChild,
// Append, SetTextContent) and fail with the same conditions, returned as
// errors instead of thrown exceptions.
//
// Every node belongs to a Document. The Document is the node factory and the
// mutation sink: it counts mutations in Stats and forwards each one to
// registered observers, which is how tests assert minimality and how
// telemetry counts DOM operations.
//
//	doc := dom.NewDocument()
//	ul := doc.CreateElement("ul")
//	li := doc.CreateElement("li")
//	_ = ul.AppendChild(li)
//	fmt.Println(ul.OuterHTML()) // <ul><li></li></ul>
//
// A Document is not safe for concurrent mutation. Woby mutates the tree from
// a single goroutine (see package loop); Stats may be read from any goroutine.
package dom
