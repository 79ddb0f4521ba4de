package dom

import (
	stderrors "errors"
	"testing"
)

func children(n *Node) []*Node {
	return n.ChildNodes()
}

func TestNodeTypeString(t *testing.T) {
	tests := []struct {
		typ  NodeType
		want string
	}{
		{ElementNode, "Element"},
		{TextNode, "Text"},
		{CommentNode, "Comment"},
		{DocumentFragmentNode, "DocumentFragment"},
		{NodeType(42), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("NodeType(%d).String() = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestAppendAndSiblings(t *testing.T) {
	doc := NewDocument()
	ul := doc.CreateElement("ul")
	a, b, c := doc.CreateTextNode("a"), doc.CreateTextNode("b"), doc.CreateTextNode("c")

	if err := ul.Append(a, b, c); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ul.FirstChild() != a || ul.LastChild() != c {
		t.Error("first/last child mismatch")
	}
	if a.NextSibling() != b || c.NextSibling() != nil {
		t.Error("NextSibling mismatch")
	}
	if b.PreviousSibling() != a || a.PreviousSibling() != nil {
		t.Error("PreviousSibling mismatch")
	}
	if ul.TextContent() != "abc" {
		t.Errorf("TextContent = %q, want abc", ul.TextContent())
	}
}

func TestChildNodesIsACopy(t *testing.T) {
	doc := NewDocument()
	p := doc.CreateElement("div")
	a := doc.CreateTextNode("a")
	b := doc.CreateTextNode("b")
	_ = p.AppendChild(a)
	_ = p.AppendChild(b)

	got := p.ChildNodes()
	got[0] = b
	got[1] = nil

	if p.FirstChild() != a || p.ChildCount() != 2 {
		t.Errorf("tree changed through ChildNodes(): first = %v, count = %d", p.FirstChild(), p.ChildCount())
	}
	if got := p.InnerHTML(); got != "ab" {
		t.Errorf("InnerHTML() = %q, want %q", got, "ab")
	}
}

func TestInsertBeforeMovesNode(t *testing.T) {
	doc := NewDocument()
	p := doc.CreateElement("div")
	a, b, c := doc.CreateTextNode("a"), doc.CreateTextNode("b"), doc.CreateTextNode("c")
	_ = p.Append(a, b, c)
	doc.ResetStats()

	if err := p.InsertBefore(c, a); err != nil {
		t.Fatalf("InsertBefore: %v", err)
	}
	got := children(p)
	if got[0] != c || got[1] != a || got[2] != b {
		t.Errorf("order = %q, want cab", p.TextContent())
	}
	stats := doc.Stats()
	if stats.Moved != 1 || stats.Removed != 0 || stats.Inserted != 0 {
		t.Errorf("stats = %+v, want a single move", stats)
	}
}

func TestInsertBeforeStaleReference(t *testing.T) {
	doc := NewDocument()
	p := doc.CreateElement("div")
	ref := doc.CreateTextNode("detached")

	err := p.InsertBefore(doc.CreateTextNode("x"), ref)
	if !stderrors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestInsertHierarchyErrors(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div")
	inner := doc.CreateElement("span")
	_ = outer.AppendChild(inner)

	if err := inner.AppendChild(outer); !stderrors.Is(err, ErrHierarchy) {
		t.Errorf("ancestor insert err = %v, want ErrHierarchy", err)
	}
	text := doc.CreateTextNode("t")
	if err := text.AppendChild(doc.CreateTextNode("u")); !stderrors.Is(err, ErrHierarchy) {
		t.Errorf("text insert err = %v, want ErrHierarchy", err)
	}
}

func TestInsertDocumentFragment(t *testing.T) {
	doc := NewDocument()
	p := doc.CreateElement("div")
	frag := doc.CreateDocumentFragment()
	_ = frag.Append(doc.CreateTextNode("1"), doc.CreateTextNode("2"))

	if err := p.AppendChild(frag); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}
	if p.TextContent() != "12" {
		t.Errorf("TextContent = %q, want 12", p.TextContent())
	}
	if len(frag.ChildNodes()) != 0 {
		t.Error("fragment should be emptied")
	}
}

func TestRemoveChild(t *testing.T) {
	doc := NewDocument()
	p := doc.CreateElement("div")
	a := doc.CreateTextNode("a")
	_ = p.AppendChild(a)

	if err := p.RemoveChild(a); err != nil {
		t.Fatalf("RemoveChild: %v", err)
	}
	if a.ParentNode() != nil {
		t.Error("removed node should be detached")
	}
	if err := p.RemoveChild(a); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("second remove err = %v, want ErrNotFound", err)
	}
}

func TestReplaceChild(t *testing.T) {
	doc := NewDocument()
	p := doc.CreateElement("div")
	a, b, c := doc.CreateTextNode("a"), doc.CreateTextNode("b"), doc.CreateTextNode("c")
	_ = p.Append(a, b)

	if err := p.ReplaceChild(c, a); err != nil {
		t.Fatalf("ReplaceChild: %v", err)
	}
	if p.TextContent() != "cb" {
		t.Errorf("TextContent = %q, want cb", p.TextContent())
	}
	if a.ParentNode() != nil {
		t.Error("old node should be detached")
	}

	// Replacing with a sibling moves it.
	if err := p.ReplaceChild(b, c); err != nil {
		t.Fatalf("ReplaceChild sibling: %v", err)
	}
	if len(p.ChildNodes()) != 1 || p.FirstChild() != b {
		t.Errorf("children = %q, want b", p.TextContent())
	}
}

func TestSetTextContent(t *testing.T) {
	doc := NewDocument()
	p := doc.CreateElement("div")
	_ = p.Append(doc.CreateTextNode("a"), doc.CreateComment(""))

	p.SetTextContent("")
	if len(p.ChildNodes()) != 0 {
		t.Errorf("children = %d, want 0", len(p.ChildNodes()))
	}

	p.SetTextContent("hello")
	if p.TextContent() != "hello" || p.FirstChild().Type() != TextNode {
		t.Errorf("TextContent = %q", p.TextContent())
	}
}

func TestSetNodeValue(t *testing.T) {
	doc := NewDocument()
	text := doc.CreateTextNode("1")
	doc.ResetStats()

	text.SetNodeValue("2")
	text.SetNodeValue("2")

	if text.NodeValue() != "2" {
		t.Errorf("NodeValue = %q, want 2", text.NodeValue())
	}
	if got := doc.Stats().TextWrites; got != 1 {
		t.Errorf("TextWrites = %d, want 1", got)
	}
}

func TestObserve(t *testing.T) {
	doc := NewDocument()
	p := doc.CreateElement("div")

	var kinds []MutationKind
	cancel := doc.Observe(func(m Mutation) {
		kinds = append(kinds, m.Kind)
	})

	_ = p.AppendChild(doc.CreateTextNode("x"))
	cancel()
	_ = p.AppendChild(doc.CreateTextNode("y"))

	if len(kinds) != 2 || kinds[0] != MutationCreate || kinds[1] != MutationInsert {
		t.Errorf("kinds = %v, want [create insert]", kinds)
	}
}

func TestOuterHTML(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	div.SetAttribute("class", "a\"b")
	div.SetAttribute("hidden", "")
	_ = div.Append(doc.CreateTextNode("<x>"), doc.CreateComment(""), doc.CreateElement("br"))

	want := `<div class="a&quot;b" hidden>&lt;x&gt;<!----><br></div>`
	if got := div.OuterHTML(); got != want {
		t.Errorf("OuterHTML = %s, want %s", got, want)
	}
	if got := div.InnerHTML(); got != `&lt;x&gt;<!----><br>` {
		t.Errorf("InnerHTML = %s", got)
	}
}
