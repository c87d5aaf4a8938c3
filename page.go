package mdslide

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/alnah/go-mdslide/internal/pipeline"
)

// pageData is the data passed to the page template.
type pageData struct {
	Lang    string
	Title   string
	Slides  template.HTML
	Scripts []string
}

// RenderPage assembles a standalone HTML document from a slide tree. Each
// slide becomes a <section class="slide"> holding its heading, a
// div.slide-content with its content, then its child sections. The deck
// style, the code stylesheet and opts.CSS are injected in that order.
func (c *Converter) RenderPage(ctx context.Context, tree *Tree, opts PageOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var sb strings.Builder
	if tree == nil {
		tree = &Tree{}
	}
	for _, s := range tree.Slides {
		c.writeSection(&sb, s)
	}

	slides, err := pipeline.RewriteRelativePaths(sb.String(), opts.SourceDir)
	if err != nil {
		return "", fmt.Errorf("rewriting relative paths: %w", err)
	}

	data := pageData{
		Lang:    defaultString(opts.Lang, "en"),
		Title:   defaultString(opts.Title, "Slides"),
		Slides:  template.HTML(slides), // #nosec G203 -- produced by the renderer
		Scripts: opts.Scripts,
	}
	var buf bytes.Buffer
	if err := c.page.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}

	codeCSS, err := c.highlighter.CSS()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}

	out := buf.String()
	for _, css := range []string{c.cfg.resolvedStyle, codeCSS, opts.CSS} {
		out = c.cssInjector.InjectCSS(ctx, out, css)
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	return out, nil
}

func (c *Converter) writeSection(sb *strings.Builder, s *Slide) {
	class := "slide"
	if s.Synthetic {
		class += " synthetic"
	}
	sb.WriteString(`<section class="` + class + `" data-depth="` + strconv.Itoa(s.Depth) + `">` + "\n")
	if s.HTML != "" {
		sb.WriteString(s.HTML + "\n")
	}
	if len(s.Content) > 0 {
		sb.WriteString(`<div class="slide-content">` + "\n")
		for _, n := range s.Content {
			if out := c.renderer.RenderStructural(n); out != "" {
				sb.WriteString(out + "\n")
			}
		}
		sb.WriteString("</div>\n")
	}
	for _, child := range s.Children {
		c.writeSection(sb, child)
	}
	sb.WriteString("</section>\n")
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
