package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/alnah/go-mdslide/mdast"
)

func TestGoldmarkParser_Parse(t *testing.T) {
	t.Parallel()

	root, err := NewGoldmarkParser().Parse(context.Background(), "intro\n\n# Title\n\n- a\n- b\n\n| x |\n|---|\n| 1 |\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if root.Type != mdast.KindRoot {
		t.Fatalf("root type = %q", root.Type)
	}

	var kinds []mdast.Kind
	for _, c := range root.Children {
		kinds = append(kinds, c.Type)
		if c.Parent() != root {
			t.Errorf("%s child is not linked to root", c.Type)
		}
	}
	want := []mdast.Kind{mdast.KindParagraph, mdast.KindHeading, mdast.KindList, mdast.KindTable}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %q, want %q", i, kinds[i], want[i])
		}
	}
}

func TestGoldmarkParser_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGoldmarkParser().Parse(ctx, "# x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
