package main

import (
	"encoding/json"
	"fmt"

	mdslide "github.com/alnah/go-mdslide"
)

// deckView is the JSON document written in json format. It carries the
// rendered heading and content of every slide so a client-side presenter can
// lay out the deck without a markdown parser.
type deckView struct {
	Title       string         `json:"title,omitempty"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	Slides      []slideView    `json:"slides"`
}

type slideView struct {
	Title       string      `json:"title"`
	Depth       int         `json:"depth"`
	Synthetic   bool        `json:"synthetic,omitempty"`
	HTML        string      `json:"html"`
	ContentHTML string      `json:"contentHtml"`
	ListHTML    string      `json:"childrenHtml,omitempty"`
	Navigable   bool        `json:"navigable"`
	NestedNav   bool        `json:"hasNavigableChild,omitempty"`
	Items       []string    `json:"items,omitempty"`
	Children    []slideView `json:"children,omitempty"`
}

// newDeckView projects a conversion result onto its JSON view.
func newDeckView(res *mdslide.Result) deckView {
	view := deckView{
		Title:       res.Title,
		Frontmatter: res.Frontmatter,
		Slides:      []slideView{},
	}
	for _, s := range res.Tree.Slides {
		view.Slides = append(view.Slides, newSlideView(res.Tree, s))
	}
	return view
}

func newSlideView(t *mdslide.Tree, s *mdslide.Slide) slideView {
	v := slideView{
		Title:       s.Title,
		Depth:       s.Depth,
		Synthetic:   s.Synthetic,
		HTML:        s.HTML,
		ContentHTML: t.ContentHTML(s),
		ListHTML:    t.ChildrenHTML(s),
		Navigable:   s.Navigable(),
		NestedNav:   s.HasNavigableChild(),
	}
	if v.Navigable {
		v.Items = t.NavigationItems(s)
	}
	for _, c := range s.Children {
		v.Children = append(v.Children, newSlideView(t, c))
	}
	return v
}

// marshalDeck encodes a conversion result as indented JSON.
func marshalDeck(res *mdslide.Result) ([]byte, error) {
	data, err := json.MarshalIndent(newDeckView(res), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding deck: %w", err)
	}
	return append(data, '\n'), nil
}
