package dom

import (
	"sync"
	"sync/atomic"
)

// MutationKind identifies the kind of tree mutation.
type MutationKind uint8

const (
	MutationInsert MutationKind = iota + 1
	MutationMove
	MutationRemove
	MutationReplace
	MutationText
	MutationAttribute
	MutationCreate
)

// String returns the string representation of the MutationKind.
func (k MutationKind) String() string {
	switch k {
	case MutationInsert:
		return "insert"
	case MutationMove:
		return "move"
	case MutationRemove:
		return "remove"
	case MutationReplace:
		return "replace"
	case MutationText:
		return "text"
	case MutationAttribute:
		return "attribute"
	case MutationCreate:
		return "create"
	default:
		return "unknown"
	}
}

// Mutation describes a single change to the tree.
type Mutation struct {
	Kind MutationKind

	// Target is the node whose child list, data or attributes changed.
	Target *Node

	// Node is the inserted, moved, removed or replacing node.
	Node *Node

	// Old is the replaced node for MutationReplace.
	Old *Node

	// Name is the attribute name for MutationAttribute.
	Name string
}

// Stats holds mutation counters for a document.
type Stats struct {
	Created    int64
	Inserted   int64
	Moved      int64
	Removed    int64
	Replaced   int64
	TextWrites int64
}

// Document creates nodes and records the mutations applied to them.
type Document struct {
	created    atomic.Int64
	inserted   atomic.Int64
	moved      atomic.Int64
	removed    atomic.Int64
	replaced   atomic.Int64
	textWrites atomic.Int64

	observers   map[uint64]func(Mutation)
	nextObsID   uint64
	observersMu sync.RWMutex
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) *Node {
	return d.create(&Node{typ: ElementNode, tag: tag})
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(text string) *Node {
	return d.create(&Node{typ: TextNode, value: text})
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(text string) *Node {
	return d.create(&Node{typ: CommentNode, value: text})
}

// CreateDocumentFragment creates an empty document fragment.
func (d *Document) CreateDocumentFragment() *Node {
	return d.create(&Node{typ: DocumentFragmentNode})
}

func (d *Document) create(n *Node) *Node {
	n.doc = d
	d.record(Mutation{Kind: MutationCreate, Node: n})
	return n
}

// Stats returns a snapshot of the mutation counters.
func (d *Document) Stats() Stats {
	return Stats{
		Created:    d.created.Load(),
		Inserted:   d.inserted.Load(),
		Moved:      d.moved.Load(),
		Removed:    d.removed.Load(),
		Replaced:   d.replaced.Load(),
		TextWrites: d.textWrites.Load(),
	}
}

// ResetStats zeroes the mutation counters.
func (d *Document) ResetStats() {
	d.created.Store(0)
	d.inserted.Store(0)
	d.moved.Store(0)
	d.removed.Store(0)
	d.replaced.Store(0)
	d.textWrites.Store(0)
}

// Observe registers fn to receive every mutation. The returned function
// unregisters it.
func (d *Document) Observe(fn func(Mutation)) (cancel func()) {
	d.observersMu.Lock()
	defer d.observersMu.Unlock()

	if d.observers == nil {
		d.observers = make(map[uint64]func(Mutation))
	}
	d.nextObsID++
	id := d.nextObsID
	d.observers[id] = fn

	return func() {
		d.observersMu.Lock()
		defer d.observersMu.Unlock()
		delete(d.observers, id)
	}
}

func (d *Document) record(m Mutation) {
	switch m.Kind {
	case MutationCreate:
		d.created.Add(1)
	case MutationInsert:
		d.inserted.Add(1)
	case MutationMove:
		d.moved.Add(1)
	case MutationRemove:
		d.removed.Add(1)
	case MutationReplace:
		d.replaced.Add(1)
	case MutationText:
		d.textWrites.Add(1)
	}

	d.observersMu.RLock()
	if len(d.observers) == 0 {
		d.observersMu.RUnlock()
		return
	}
	obs := make([]func(Mutation), 0, len(d.observers))
	for _, fn := range d.observers {
		obs = append(obs, fn)
	}
	d.observersMu.RUnlock()

	for _, fn := range obs {
		fn(m)
	}
}
