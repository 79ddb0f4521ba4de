package reconcile

import (
	"github.com/vango-dev/woby/pkg/dom"
	"github.com/vango-dev/woby/pkg/fragment"
)

// Diff mutates parent so that the run of nodes before is replaced by after,
// in order. nextSibling is the node following the run, or nil when the run
// ends the parent. Nodes present in both runs are moved, never recreated.
//
// Cheaper operations are always preferred: identical ends are skipped,
// a swapped window is fixed with two moves, and only then does the differ
// fall back to an index of after, inserting gaps before an in-order run or
// replacing single nodes.
func Diff(parent *dom.Node, before, after fragment.Children, nextSibling *dom.Node) error {
	// Single nodes are wrapped in stack arrays instead of allocated slices.
	var aBuf, bBuf [1]*dom.Node
	a := before.Many
	if before.Single != nil {
		aBuf[0] = before.Single
		a = aBuf[:]
	}
	b := after.Many
	if after.Single != nil {
		bBuf[0] = after.Single
		b = bBuf[:]
	}

	// a is rewritten by the swap step; copy it first if it is not ours.
	aOwned := before.Single != nil

	bLength := len(b)
	aStart, aEnd := 0, len(a)
	bStart, bEnd := 0, bLength
	var index map[*dom.Node]int

	for aStart < aEnd || bStart < bEnd {
		if aStart < aEnd && bStart < bEnd && a[aStart] == b[bStart] {
			aStart++
			bStart++
			continue
		}

		for aEnd > aStart && bEnd > bStart && a[aEnd-1] == b[bEnd-1] {
			aEnd--
			bEnd--
		}

		switch {
		case aEnd == aStart:
			// Only insertions left.
			ref := nextSibling
			if bEnd < bLength {
				if bStart > 0 {
					ref = b[bStart-1].NextSibling()
				} else {
					ref = b[bEnd]
				}
			}
			for bStart < bEnd {
				if err := parent.InsertBefore(b[bStart], ref); err != nil {
					return err
				}
				bStart++
			}

		case bEnd == bStart:
			// Only removals left. Nodes indexed in after were moved already.
			for aStart < aEnd {
				node := a[aStart]
				if _, placed := index[node]; !placed {
					removeAttached(parent, node)
				}
				aStart++
			}

		case a[aStart] == b[bEnd-1] && b[bStart] == a[aEnd-1]:
			// Swapped ends.
			if !aOwned {
				a = append([]*dom.Node(nil), a...)
				aOwned = true
			}
			aEnd--
			ref := a[aEnd].NextSibling()
			if err := parent.InsertBefore(b[bStart], a[aStart].NextSibling()); err != nil {
				return err
			}
			bStart++
			aStart++
			bEnd--
			if err := parent.InsertBefore(b[bEnd], ref); err != nil {
				return err
			}
			// The slot now holds after's node; mark it placed.
			a[aEnd] = b[bEnd]

		default:
			if index == nil {
				index = make(map[*dom.Node]int, bEnd-bStart)
				for i := bStart; i < bEnd; i++ {
					index[b[i]] = i
				}
			}

			i, ok := index[a[aStart]]
			if !ok {
				removeAttached(parent, a[aStart])
				aStart++
				continue
			}
			if i <= bStart || i >= bEnd {
				aStart++
				continue
			}

			// Length of the run starting at a[aStart] that is already in
			// after's order.
			sequence := 1
			for k := aStart + 1; k < aEnd && k < bEnd; k++ {
				if t, ok := index[a[k]]; !ok || t != i+sequence {
					break
				}
				sequence++
			}

			if sequence > i-bStart {
				ref := a[aStart]
				for bStart < i {
					if err := parent.InsertBefore(b[bStart], ref); err != nil {
						return err
					}
					bStart++
				}
			} else {
				if err := replaceAttached(parent, b[bStart], a[aStart]); err != nil {
					return err
				}
				bStart++
				aStart++
			}
		}
	}

	return nil
}

// removeAttached removes node if it is still a child of parent. A node
// detached by a re-entrant reconciliation is already where it should be.
func removeAttached(parent, node *dom.Node) {
	if node.ParentNode() != parent {
		return
	}
	_ = parent.RemoveChild(node)
}

// replaceAttached replaces old with node if old is still a child of parent.
func replaceAttached(parent, node, old *dom.Node) error {
	if old.ParentNode() != parent {
		return nil
	}
	return parent.ReplaceChild(node, old)
}
