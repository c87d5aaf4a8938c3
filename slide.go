package mdslide

import (
	"strings"

	"github.com/alnah/go-mdslide/mdast"
)

// Slide is one node of the presentation structure. Content holds the AST
// nodes collected under the heading before any deeper heading appeared;
// Children holds the slides opened by deeper headings. Content always
// precedes Children in document order.
type Slide struct {
	Title     string        `json:"title"`
	HTML      string        `json:"html"`
	Depth     int           `json:"depth"`
	Synthetic bool          `json:"synthetic,omitempty"`
	Heading   *mdast.Node   `json:"-"`
	Content   []*mdast.Node `json:"content,omitempty"`
	Children  []*Slide      `json:"children,omitempty"`

	parent *Slide
}

// Parent returns the enclosing slide, or nil for a top-level slide.
// The reference is non-owning.
func (s *Slide) Parent() *Slide {
	if s == nil {
		return nil
	}
	return s.parent
}

// Path returns the slides from the top-level ancestor down to s.
func (s *Slide) Path() []*Slide {
	var path []*Slide
	for cur := s; cur != nil; cur = cur.parent {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Walk calls fn for s and every descendant slide in pre-order.
// Returning false from fn skips the slide's children.
func (s *Slide) Walk(fn func(*Slide) bool) {
	if s == nil || !fn(s) {
		return
	}
	for _, c := range s.Children {
		c.Walk(fn)
	}
}

// Tree is the result of a build: the ordered top-level slides of a document.
// It is immutable after Build returns.
type Tree struct {
	Type   string   `json:"type"`
	Slides []*Slide `json:"children"`

	owners   map[*mdast.Node]*Slide
	renderer NodeRenderer
}

// Owner returns the slide holding n as heading or top-level content, or nil.
func (t *Tree) Owner(n *mdast.Node) *Slide {
	if t == nil {
		return nil
	}
	return t.owners[n]
}

// Len returns the number of slides in the tree at every depth.
func (t *Tree) Len() int {
	count := 0
	t.Walk(func(*Slide) bool {
		count++
		return true
	})
	return count
}

// Walk visits every slide in document order.
func (t *Tree) Walk(fn func(*Slide) bool) {
	if t == nil {
		return
	}
	for _, s := range t.Slides {
		s.Walk(fn)
	}
}

// ContentHTML renders each content node of s the way Render does and joins
// the results with newlines. Nodes that fail to render are skipped.
func (t *Tree) ContentHTML(s *Slide) string {
	if t == nil || t.renderer == nil || s == nil {
		return ""
	}
	parts := make([]string, 0, len(s.Content))
	for _, n := range s.Content {
		if out := t.renderer.Render(n); out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n")
}
