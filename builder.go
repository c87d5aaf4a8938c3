package mdslide

import "github.com/alnah/go-mdslide/mdast"

// NodeRenderer renders AST nodes to HTML without ever failing: nodes that
// cannot be rendered produce "".
type NodeRenderer interface {
	Render(n *mdast.Node) string
	RenderStructural(n *mdast.Node) string
}

// Builder restructures a document into slides keyed by heading depth.
// It keeps no state between builds and is safe for concurrent use.
type Builder struct {
	renderer NodeRenderer
}

// NewBuilder creates a Builder that renders headings with r.
func NewBuilder(r NodeRenderer) *Builder {
	return &Builder{renderer: r}
}

// Build walks the top-level children of root. Content before the first
// heading becomes one synthetic depth-1 slide. A heading closes every open
// slide of the same or greater depth and nests under the closest shallower
// one. The AST is not modified.
func (b *Builder) Build(root *mdast.Node) *Tree {
	t := &Tree{Type: string(mdast.KindRoot), owners: map[*mdast.Node]*Slide{}, renderer: b.renderer}
	if root == nil {
		return t
	}

	var (
		stack   []*Slide
		pending []*mdast.Node
	)

	for _, n := range root.Children {
		if n == nil {
			continue
		}
		if n.Type != mdast.KindHeading {
			if len(stack) == 0 {
				pending = append(pending, n)
				continue
			}
			top := stack[len(stack)-1]
			top.Content = append(top.Content, n)
			t.owners[n] = top
			continue
		}

		if len(stack) == 0 && len(pending) > 0 {
			t.Slides = append(t.Slides, t.synthetic(pending))
			pending = nil
		}

		s := b.headingSlide(n)
		t.owners[n] = s
		for len(stack) > 0 && stack[len(stack)-1].Depth >= s.Depth {
			closed := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				t.Slides = append(t.Slides, closed)
			}
		}
		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, s)
		}
		stack = append(stack, s)
	}

	switch {
	case len(stack) > 0:
		t.Slides = append(t.Slides, stack[0])
	case len(pending) > 0:
		t.Slides = append(t.Slides, t.synthetic(pending))
	}

	linkSlides(t.Slides, nil)
	return t
}

func (b *Builder) headingSlide(n *mdast.Node) *Slide {
	s := &Slide{Depth: n.Depth, Heading: n, HTML: b.renderer.Render(n)}
	if first := n.FirstChild(); first != nil {
		s.Title = b.renderer.Render(first)
	}
	return s
}

func (t *Tree) synthetic(content []*mdast.Node) *Slide {
	s := &Slide{Depth: 1, Synthetic: true, Content: content}
	for _, n := range content {
		t.owners[n] = s
	}
	return s
}

// linkSlides assigns parent back-references below the given slides.
func linkSlides(slides []*Slide, parent *Slide) {
	for _, s := range slides {
		s.parent = parent
		linkSlides(s.Children, s)
	}
}
