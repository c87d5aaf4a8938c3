package mdslide

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-mdslide/mdast"
)

func item(children ...*mdast.Node) *mdast.Node {
	return mdast.New(mdast.KindListItem, children...)
}

func list(items ...*mdast.Node) *mdast.Node {
	return mdast.New(mdast.KindList, items...)
}

// ---------------------------------------------------------------------------
// TestNavigable
// ---------------------------------------------------------------------------

func TestNavigable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		root *mdast.Node
		want bool
	}{
		{
			name: "only child slides",
			root: doc(heading(1, "a"), heading(2, "b"), heading(2, "c")),
			want: true,
		},
		{
			name: "only lists",
			root: doc(heading(1, "a"), list(item(para("x"))), list(item(para("y")))),
			want: true,
		},
		{
			name: "mixed content",
			root: doc(heading(1, "a"), list(item(para("x"))), para("y")),
			want: false,
		},
		{
			name: "lists and child slides",
			root: doc(heading(1, "a"), list(item(para("x"))), heading(2, "b")),
			want: false,
		},
		{
			name: "leaf slide",
			root: doc(heading(1, "a")),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := build(tt.root)
			if got := tree.Slides[0].Navigable(); got != tt.want {
				t.Errorf("Navigable() = %v, want %v", got, tt.want)
			}
		})
	}

	if (*Slide)(nil).Navigable() {
		t.Error("nil slide should not be navigable")
	}
}

func TestHasNavigableChild(t *testing.T) {
	t.Parallel()

	withNavigableSlide := build(doc(heading(1, "a"), heading(2, "b"), heading(3, "c")))
	if !withNavigableSlide.Slides[0].HasNavigableChild() {
		t.Error("slide whose child has sub-slides should have a navigable child")
	}

	quote := mdast.New(mdast.KindBlockquote, list(item(para("x"))), list(item(para("y"))))
	withLists := build(doc(heading(1, "a"), quote))
	if !withLists.Slides[0].HasNavigableChild() {
		t.Error("content made only of lists should be navigable")
	}

	withList := build(doc(heading(1, "a"), list(item(para("x")))))
	if withList.Slides[0].HasNavigableChild() {
		t.Error("list items are not lists: a bare list is not navigable content")
	}

	flat := build(doc(heading(1, "a"), para("x"), heading(2, "b")))
	if flat.Slides[0].HasNavigableChild() {
		t.Error("paragraph and leaf slide are not navigable")
	}

	if (*Slide)(nil).HasNavigableChild() {
		t.Error("nil slide should not have navigable children")
	}
}

// ---------------------------------------------------------------------------
// TestNavigationItems
// ---------------------------------------------------------------------------

func TestNavigationItems(t *testing.T) {
	t.Parallel()

	t.Run("child slide titles", func(t *testing.T) {
		t.Parallel()

		tree := build(doc(heading(1, "a"), heading(2, "b"), heading(2, "c")))
		want := []string{"<text>b", "<text>c"}
		if diff := cmp.Diff(want, tree.NavigationItems(tree.Slides[0])); diff != "" {
			t.Errorf("NavigationItems() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("list items without nested lists", func(t *testing.T) {
		t.Parallel()

		nested := list(item(para("deep")))
		tree := build(doc(
			heading(1, "a"),
			list(item(para("x"), nested), item(para("y"))),
			list(item(para("z"))),
		))
		want := []string{"[x]", "[y]", "[z]"}
		if diff := cmp.Diff(want, tree.NavigationItems(tree.Slides[0])); diff != "" {
			t.Errorf("NavigationItems() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nil slide", func(t *testing.T) {
		t.Parallel()

		if got := build(doc()).NavigationItems(nil); got != nil {
			t.Errorf("NavigationItems(nil) = %v, want nil", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestChildrenHTML
// ---------------------------------------------------------------------------

// structureRenderer shows the list shape it receives.
type structureRenderer struct{ textRenderer }

func (structureRenderer) RenderStructural(n *mdast.Node) string {
	var out string
	mdast.Walk(n, func(c *mdast.Node) mdast.WalkStatus {
		switch c.Type {
		case mdast.KindList:
			out += "L"
		case mdast.KindListItem:
			out += "I"
		case mdast.KindText:
			out += c.Value
		}
		return mdast.WalkContinue
	})
	return out
}

func TestChildrenHTML(t *testing.T) {
	t.Parallel()

	nested := list(item(para("deep")))
	root := doc(heading(1, "a"), list(item(para("x"), nested), item(para("y"))))
	tree := NewBuilder(structureRenderer{}).Build(root)

	if got := tree.ChildrenHTML(tree.Slides[0]); got != "LIxIy" {
		t.Errorf("ChildrenHTML() = %q, want nested list removed", got)
	}

	// The source list still holds its nested list.
	first := root.Children[1].Children[0]
	if len(first.Children) != 2 || first.Children[1] != nested {
		t.Error("ChildrenHTML() modified the document")
	}

	twoLists := NewBuilder(structureRenderer{}).Build(doc(heading(1, "a"), list(item(para("x"))), list(item(para("y")))))
	if got := twoLists.ChildrenHTML(twoLists.Slides[0]); got != "" {
		t.Errorf("ChildrenHTML(two lists) = %q, want empty", got)
	}

	paragraph := NewBuilder(structureRenderer{}).Build(doc(heading(1, "a"), para("x")))
	if got := paragraph.ChildrenHTML(paragraph.Slides[0]); got != "" {
		t.Errorf("ChildrenHTML(paragraph) = %q, want empty", got)
	}
}
