// Package mdast models the markdown syntax tree consumed by the slide builder.
//
// Trees are produced by an external parser: either decoded from
// remark-compatible JSON with Decode, or converted from a goldmark document
// with FromGoldmark. Node kinds form an open set; consumers switch on Kind and
// fall back to generic handling for kinds they do not recognize.
package mdast

import "strings"

// Kind identifies the type of a Node.
type Kind string

// Node kinds understood by this module.
const (
	KindRoot          Kind = "root"
	KindHeading       Kind = "heading"
	KindList          Kind = "list"
	KindListItem      Kind = "listItem"
	KindParagraph     Kind = "paragraph"
	KindText          Kind = "text"
	KindImage         Kind = "image"
	KindCode          Kind = "code"
	KindLink          Kind = "link"
	KindEmphasis      Kind = "emphasis"
	KindStrong        Kind = "strong"
	KindDelete        Kind = "delete"
	KindInlineCode    Kind = "inlineCode"
	KindBreak         Kind = "break"
	KindThematicBreak Kind = "thematicBreak"
	KindBlockquote    Kind = "blockquote"
	KindHTML          Kind = "html"
	KindTable         Kind = "table"
	KindTableRow      Kind = "tableRow"
	KindTableCell     Kind = "tableCell"
	KindMath          Kind = "math"
	KindInlineMath    Kind = "inlineMath"
)

// EscapedDollar stands in for a backslash-escaped dollar sign inside text
// values. Text reports it as "$"; the HTML renderer emits it as &#36;, which
// never delimits a formula.
const EscapedDollar = "\uFDD0"

// IsLeaf reports whether nodes of kind k carry a literal value instead of children.
func (k Kind) IsLeaf() bool {
	switch k {
	case KindText, KindInlineCode, KindCode, KindHTML, KindMath, KindInlineMath:
		return true
	}
	return false
}

// Node is a single markdown syntax tree node.
// Only the fields relevant to a node's Kind are populated.
type Node struct {
	Type     Kind     `json:"type"`
	Depth    int      `json:"depth,omitempty"`    // heading level, 1 = top
	Children []*Node  `json:"children,omitempty"` // ordered, never reordered by consumers
	Value    string   `json:"value,omitempty"`    // text, code, html and math payload
	Lang     string   `json:"lang,omitempty"`     // code language tag
	Meta     string   `json:"meta,omitempty"`     // code info string after the language
	URL      string   `json:"url,omitempty"`      // link and image destination
	Title    string   `json:"title,omitempty"`    // link and image title
	Alt      string   `json:"alt,omitempty"`      // image alternative text
	Ordered  bool     `json:"ordered,omitempty"`  // list
	Start    *int     `json:"start,omitempty"`    // ordered list start number
	Spread   bool     `json:"spread,omitempty"`   // loose list or list item
	Checked  *bool    `json:"checked,omitempty"`  // task list item state
	Align    []string `json:"align,omitempty"`    // table column alignment

	parent *Node
}

// Parent returns the enclosing node, or nil for a root or an unlinked node.
// The reference is non-owning: Children is the only owning relation.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// Is reports whether n is non-nil and of kind k.
func (n *Node) Is(k Kind) bool {
	return n != nil && n.Type == k
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// Text returns the concatenated literal text of n and its descendants.
func (n *Node) Text() string {
	var sb strings.Builder
	Walk(n, func(c *Node) WalkStatus {
		switch {
		case c.Type.IsLeaf():
			sb.WriteString(strings.ReplaceAll(c.Value, EscapedDollar, "$"))
		case c.Type == KindImage:
			sb.WriteString(c.Alt)
		case c.Type == KindBreak:
			sb.WriteString("\n")
		}
		return WalkContinue
	})
	return sb.String()
}

// Link assigns parent back-references throughout the tree rooted at n.
// It is idempotent and does not touch the order of Children.
func Link(n *Node) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		c.parent = n
		Link(c)
	}
}

// New returns a node of kind k with the given children, linked to them.
func New(k Kind, children ...*Node) *Node {
	n := &Node{Type: k, Children: children}
	for _, c := range children {
		if c != nil {
			c.parent = n
		}
	}
	return n
}

// NewText returns a text node.
func NewText(value string) *Node {
	return &Node{Type: KindText, Value: value}
}

// NewHeading returns a heading node of the given depth.
func NewHeading(depth int, children ...*Node) *Node {
	n := New(KindHeading, children...)
	n.Depth = depth
	return n
}

// NewCode returns a fenced code node.
func NewCode(lang, value string) *Node {
	return &Node{Type: KindCode, Lang: lang, Value: value}
}
