package mdslide

import "github.com/alnah/go-mdslide/mdast"

// Navigable reports whether the slide can be browsed item by item: it has
// children, and either they are all slides or its content is all lists.
func (s *Slide) Navigable() bool {
	if s == nil {
		return false
	}
	if len(s.Content) == 0 {
		return len(s.Children) > 0
	}
	if len(s.Children) > 0 {
		return false
	}
	for _, n := range s.Content {
		if !n.Is(mdast.KindList) {
			return false
		}
	}
	return true
}

// HasNavigableChild reports whether any child slide or content node is
// itself navigable.
func (s *Slide) HasNavigableChild() bool {
	if s == nil {
		return false
	}
	for _, c := range s.Children {
		if c.Navigable() {
			return true
		}
	}
	for _, n := range s.Content {
		if nodeNavigable(n) {
			return true
		}
	}
	return false
}

// nodeNavigable applies the slide rule to an AST node: non-empty children
// that are all headings or all lists.
func nodeNavigable(n *mdast.Node) bool {
	if n == nil || len(n.Children) == 0 {
		return false
	}
	allHeadings, allLists := true, true
	for _, c := range n.Children {
		allHeadings = allHeadings && c.Is(mdast.KindHeading)
		allLists = allLists && c.Is(mdast.KindList)
	}
	return allHeadings || allLists
}

// NavigationItems returns one HTML entry per navigation stop of s: the
// titles of its child slides when it has no content of its own, otherwise
// the non-list children of every item of its content lists.
func (t *Tree) NavigationItems(s *Slide) []string {
	if s == nil {
		return nil
	}
	if len(s.Content) == 0 {
		items := make([]string, 0, len(s.Children))
		for _, c := range s.Children {
			items = append(items, c.Title)
		}
		return items
	}

	var items []string
	for _, list := range s.Content {
		if !list.Is(mdast.KindList) {
			continue
		}
		for _, item := range list.Children {
			if item == nil {
				continue
			}
			for _, n := range item.Children {
				if !n.Is(mdast.KindList) {
					items = append(items, t.renderStructural(n))
				}
			}
		}
	}
	return items
}

// ChildrenHTML renders the content of s when it is exactly one list, with
// nested lists removed so only the first level shows. Any other slide
// yields "".
func (t *Tree) ChildrenHTML(s *Slide) string {
	if s == nil || len(s.Children) > 0 || len(s.Content) != 1 || !s.Content[0].Is(mdast.KindList) {
		return ""
	}
	list := *s.Content[0]
	list.Children = make([]*mdast.Node, 0, len(s.Content[0].Children))
	for _, item := range s.Content[0].Children {
		if item == nil {
			list.Children = append(list.Children, nil)
			continue
		}
		flat := *item
		flat.Children = nil
		for _, n := range item.Children {
			if !n.Is(mdast.KindList) {
				flat.Children = append(flat.Children, n)
			}
		}
		list.Children = append(list.Children, &flat)
	}
	return t.renderStructural(&list)
}

func (t *Tree) renderStructural(n *mdast.Node) string {
	if t == nil || t.renderer == nil {
		return ""
	}
	return t.renderer.RenderStructural(n)
}
