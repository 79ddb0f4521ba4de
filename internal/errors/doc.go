// Package errors provides structured, coded errors for Woby.
//
// Every failure the renderer can surface has a registered code that maps to
// a category, a short message and a longer explanation:
//
//   - runtime: reconciliation failures (invalid mutation target, diff errors)
//   - dom: host tree violations (stale reference nodes, hierarchy errors)
//   - config: woby.json loading and validation
//   - cli: command failures (snapshot upload)
//
// # Usage
//
//	err := errors.New("W101").
//	    WithDetail("parent is a #text node").
//	    WithSuggestion("Mount children into an element or document fragment")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR W101: Invalid mutation target
//	//
//	//   parent is a #text node
//	//
//	//   Hint: Mount children into an element or document fragment
//
// Errors wrap their cause, so errors.Is and errors.As from the standard
// library see through them.
package errors
