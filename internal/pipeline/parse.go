package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-mdslide/mdast"
)

// ErrParse indicates markdown parsing failed.
var ErrParse = errors.New("markdown parsing failed")

// MarkdownParser turns markdown text into an mdast tree.
type MarkdownParser interface {
	Parse(ctx context.Context, content string) (*mdast.Node, error)
}

// GoldmarkParser parses markdown with goldmark (pure Go) and converts the
// result into mdast.
type GoldmarkParser struct {
	md goldmark.Markdown
}

// NewGoldmarkParser creates a GoldmarkParser with GFM extensions
// (tables, strikethrough, autolinks, task lists).
func NewGoldmarkParser() *GoldmarkParser {
	return &GoldmarkParser{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

// Parse parses content into a linked mdast root.
// Supports context cancellation via goroutine + select since goldmark
// doesn't natively support context.
func (p *GoldmarkParser) Parse(ctx context.Context, content string) (*mdast.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		root *mdast.Node
		err  error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrParse, r)}
			}
		}()
		source := []byte(content)
		doc := p.md.Parser().Parse(text.NewReader(source))
		done <- result{root: mdast.FromGoldmark(doc, source)}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.root, r.err
	}
}
