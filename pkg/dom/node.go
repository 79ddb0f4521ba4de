package dom

import (
	"slices"
	"sort"
	"strings"

	"github.com/vango-dev/woby/internal/errors"
)

// NodeType is the node type discriminator. Values match the browser's
// Node.nodeType constants.
type NodeType uint8

const (
	ElementNode          NodeType = 1
	TextNode             NodeType = 3
	CommentNode          NodeType = 8
	DocumentFragmentNode NodeType = 11
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case DocumentFragmentNode:
		return "DocumentFragment"
	default:
		return "Unknown"
	}
}

var (
	// ErrNotFound is returned when a reference or old child is not a child
	// of the parent being mutated.
	ErrNotFound = errors.New("W103")

	// ErrHierarchy is returned when an insertion would make a node its own
	// ancestor or targets a node that cannot have children.
	ErrHierarchy = errors.New("W104")
)

// Node is a node of the host tree.
type Node struct {
	typ      NodeType
	tag      string
	value    string
	attrs    map[string]string
	parent   *Node
	children []*Node
	doc      *Document
}

// Type returns the node type.
func (n *Node) Type() NodeType { return n.typ }

// Tag returns the element tag name, or "" for non-elements.
func (n *Node) Tag() string { return n.tag }

// OwnerDocument returns the document that created the node.
func (n *Node) OwnerDocument() *Document { return n.doc }

// ParentNode returns the parent, or nil when detached.
func (n *Node) ParentNode() *Node { return n.parent }

// ChildNodes returns a copy of the node's children. Changing the returned
// slice does not change the tree.
func (n *Node) ChildNodes() []*Node { return slices.Clone(n.children) }

// ChildCount returns the number of children without copying them.
func (n *Node) ChildCount() int { return len(n.children) }

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// NextSibling returns the sibling after n, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

// PreviousSibling returns the sibling before n, or nil.
func (n *Node) PreviousSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i <= 0 {
		return nil
	}
	return n.parent.children[i-1]
}

// NodeValue returns the data of a text or comment node, "" otherwise.
func (n *Node) NodeValue() string { return n.value }

// SetNodeValue replaces the data of a text or comment node in place.
// It is a no-op for other node types.
func (n *Node) SetNodeValue(value string) {
	if n.typ != TextNode && n.typ != CommentNode {
		return
	}
	if n.value == value {
		return
	}
	n.value = value
	n.doc.record(Mutation{Kind: MutationText, Target: n})
}

// TextContent returns the concatenated text of all descendant text nodes.
func (n *Node) TextContent() string {
	switch n.typ {
	case TextNode, CommentNode:
		return n.value
	}
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	for _, c := range n.children {
		switch c.typ {
		case TextNode:
			b.WriteString(c.value)
		case ElementNode, DocumentFragmentNode:
			c.writeText(b)
		}
	}
}

// SetTextContent removes every child and, when text is not empty, inserts a
// single text node holding it. On text and comment nodes it sets the data.
func (n *Node) SetTextContent(text string) {
	switch n.typ {
	case TextNode, CommentNode:
		n.SetNodeValue(text)
		return
	}
	old := n.children
	n.children = nil
	for _, c := range old {
		c.parent = nil
		n.doc.record(Mutation{Kind: MutationRemove, Target: n, Node: c})
	}
	if text != "" {
		t := n.doc.CreateTextNode(text)
		n.attach(t, len(n.children))
	}
}

// Attribute returns the attribute value and whether it is set.
func (n *Node) Attribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// SetAttribute sets an element attribute.
func (n *Node) SetAttribute(name, value string) {
	if n.typ != ElementNode {
		return
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
	n.doc.record(Mutation{Kind: MutationAttribute, Target: n, Name: name})
}

// RemoveAttribute removes an element attribute.
func (n *Node) RemoveAttribute(name string) {
	if _, ok := n.attrs[name]; !ok {
		return
	}
	delete(n.attrs, name)
	n.doc.record(Mutation{Kind: MutationAttribute, Target: n, Name: name})
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// CanHaveChildren reports whether the node accepts children.
func (n *Node) CanHaveChildren() bool {
	return n.typ == ElementNode || n.typ == DocumentFragmentNode
}

// AppendChild appends child, moving it if it is attached elsewhere.
func (n *Node) AppendChild(child *Node) error {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts node before ref. A nil ref appends. A node attached
// elsewhere is moved; a document fragment inserts its children in order and
// is left empty.
func (n *Node) InsertBefore(node, ref *Node) error {
	if err := n.checkInsert(node, ref); err != nil {
		return err
	}
	if node == ref {
		return nil
	}
	if node.typ == DocumentFragmentNode {
		moved := append([]*Node(nil), node.children...)
		for _, c := range moved {
			node.detach(c, false)
		}
		for _, c := range moved {
			n.insertAt(c, ref)
		}
		return nil
	}
	n.insertAt(node, ref)
	return nil
}

// Append inserts nodes after the last child, in order.
func (n *Node) Append(nodes ...*Node) error {
	for _, node := range nodes {
		if err := n.InsertBefore(node, nil); err != nil {
			return err
		}
	}
	return nil
}

// Before inserts nodes before n in n's parent, in order.
func (n *Node) Before(nodes ...*Node) error {
	if n.parent == nil {
		return nil
	}
	parent := n.parent
	for _, node := range nodes {
		if err := parent.InsertBefore(node, n); err != nil {
			return err
		}
	}
	return nil
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) error {
	if child == nil || child.parent != n {
		return errors.New("W103").WithDetailf("%s is not a child of this %s", describe(child), describe(n))
	}
	n.detach(child, true)
	return nil
}

// Remove detaches n from its parent, if any.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.detach(n, true)
	}
}

// ReplaceChild puts node in old's position and detaches old.
func (n *Node) ReplaceChild(node, old *Node) error {
	if old == nil || old.parent != n {
		return errors.New("W103").WithDetailf("%s is not a child of this %s", describe(old), describe(n))
	}
	if err := n.checkInsert(node, nil); err != nil {
		return err
	}
	if node == old {
		return nil
	}
	if node.parent != nil {
		node.parent.detach(node, false)
	}
	i := n.indexOf(old)
	old.parent = nil
	node.parent = n
	n.children[i] = node
	n.doc.record(Mutation{Kind: MutationReplace, Target: n, Node: node, Old: old})
	return nil
}

func (n *Node) checkInsert(node, ref *Node) error {
	if node == nil {
		return errors.New("W104").WithDetail("cannot insert a nil node")
	}
	if !n.CanHaveChildren() {
		return errors.New("W104").WithDetailf("%s cannot have children", describe(n))
	}
	if node.Contains(n) {
		return errors.New("W104").WithDetailf("%s is an ancestor of this %s", describe(node), describe(n))
	}
	if ref != nil && ref.parent != n {
		return errors.New("W103").WithDetailf("reference %s is not a child of this %s", describe(ref), describe(n))
	}
	return nil
}

// insertAt attaches node before ref, detaching it from any previous parent.
func (n *Node) insertAt(node, ref *Node) {
	moved := node.parent != nil
	if moved {
		node.parent.detach(node, false)
	}
	i := len(n.children)
	if ref != nil {
		i = n.indexOf(ref)
	}
	n.attachRecorded(node, i, moved)
}

func (n *Node) attach(node *Node, i int) {
	n.attachRecorded(node, i, false)
}

func (n *Node) attachRecorded(node *Node, i int, moved bool) {
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = node
	node.parent = n
	kind := MutationInsert
	if moved {
		kind = MutationMove
	}
	n.doc.record(Mutation{Kind: kind, Target: n, Node: node})
}

// detach unlinks child; record is false when the child is about to be
// re-inserted so a move is reported once.
func (n *Node) detach(child *Node, record bool) {
	i := n.indexOf(child)
	if i < 0 {
		return
	}
	copy(n.children[i:], n.children[i+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.parent = nil
	if record {
		n.doc.record(Mutation{Kind: MutationRemove, Target: n, Node: child})
	}
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// attributeNames returns attribute names in stable order.
func (n *Node) attributeNames() []string {
	names := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func describe(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	switch n.typ {
	case ElementNode:
		return "<" + n.tag + ">"
	case TextNode:
		return "#text"
	case CommentNode:
		return "#comment"
	case DocumentFragmentNode:
		return "#document-fragment"
	}
	return "node"
}
