package mdslide

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"

	"github.com/alnah/go-mdslide/internal/assets"
	"github.com/alnah/go-mdslide/internal/fileutil"
	"github.com/alnah/go-mdslide/internal/formula"
	"github.com/alnah/go-mdslide/internal/highlight"
	"github.com/alnah/go-mdslide/internal/pipeline"
	"github.com/alnah/go-mdslide/internal/render"
	"github.com/alnah/go-mdslide/mdast"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.MarkdownParser       = (*pipeline.GoldmarkParser)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ render.CodeHighlighter        = (*highlight.Highlighter)(nil)
	_ render.FormulaExtractor       = (*formula.Extractor)(nil)
	_ NodeRenderer                  = (*render.Renderer)(nil)
)

// Converter turns markdown into slide trees and standalone presentation
// pages. Create with NewConverter. It holds no per-conversion state and is
// safe for concurrent use.
type Converter struct {
	cfg               converterConfig
	assetLoader       assets.AssetLoader
	publicAssetLoader AssetLoader
	preprocessor      pipeline.MarkdownPreprocessor
	parser            pipeline.MarkdownParser
	cssInjector       pipeline.CSSInjector
	highlighter       *highlight.Highlighter
	renderer          *render.Renderer
	builder           *Builder
	page              *template.Template
}

// NewConverter creates a Converter with default configuration: TreeBlood
// math with the soft policy, the github code style, mermaid diagrams, and
// the embedded default deck style.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			logger:     slog.Default(),
			styleInput: DefaultStyle,
		},
		assetLoader:  assets.NewEmbeddedLoader(),
		preprocessor: &pipeline.CommonMarkPreprocessor{},
		parser:       pipeline.NewGoldmarkParser(),
		cssInjector:  &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.cfg.logger == nil {
		c.cfg.logger = slog.Default()
	}

	if err := c.initRendering(); err != nil {
		return nil, err
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}
	if c.publicAssetLoader != nil {
		c.assetLoader = c.publicAssetLoader
	}

	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	src, err := c.assetLoader.LoadTemplate(DefaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("loading page template: %w", convertAssetError(err))
	}
	c.page, err = template.New(DefaultTemplate).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing page template: %v", ErrPageRender, err)
	}

	return c, nil
}

// initRendering builds the typesetter, highlighter, renderer and builder.
func (c *Converter) initRendering() error {
	ts := c.cfg.typesetter
	if ts == nil {
		var err error
		if ts, err = formula.NewTypesetter(c.cfg.mathEngine); err != nil {
			return err
		}
	}

	var hlOpts []highlight.Option
	if c.cfg.codeStyle != "" {
		hlOpts = append(hlOpts, highlight.WithStyle(c.cfg.codeStyle))
	}
	if c.cfg.defaultLanguage != "" {
		hlOpts = append(hlOpts, highlight.WithDefaultLanguage(c.cfg.defaultLanguage))
	}
	if c.cfg.diagramsSet {
		hlOpts = append(hlOpts, highlight.WithDiagramLanguages(c.cfg.diagramLanguages...))
	}
	hl, err := highlight.New(hlOpts...)
	if err != nil {
		return err
	}
	c.highlighter = hl

	c.renderer, err = render.New(
		render.WithHighlighter(hl),
		render.WithExtractor(formula.NewExtractor(ts, c.cfg.policy)),
		render.WithSanitize(c.cfg.sanitize),
		render.WithLogger(c.cfg.logger),
	)
	if err != nil {
		return err
	}
	c.builder = NewBuilder(c.renderer)
	return nil
}

// Convert parses the input and builds its slide tree.
// The context is used for cancellation during parsing.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{}
	switch {
	case input.AST != nil:
		mdast.Link(input.AST)
		res.Root = input.AST
	case input.Markdown == "":
		return nil, ErrEmptyInput
	default:
		md := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		meta, body, err := pipeline.SplitFrontmatter(md)
		if err != nil {
			return nil, err
		}
		res.Frontmatter = meta
		if res.Root, err = c.parser.Parse(ctx, body); err != nil {
			return nil, err
		}
	}

	res.Tree = c.builder.Build(res.Root)
	res.Title = pipeline.FrontmatterString(res.Frontmatter, "title")
	if res.Title == "" {
		res.Title = firstHeadingText(res.Tree)
	}
	return res, nil
}

// Build restructures an already parsed document into slides.
func (c *Converter) Build(root *mdast.Node) *Tree {
	return c.builder.Build(root)
}

// Render converts one node to HTML the way slide content is rendered:
// lists become one block per item and code is highlighted. Nodes that
// cannot be rendered are logged and produce "".
func (c *Converter) Render(n *mdast.Node) string {
	return c.renderer.Render(n)
}

// CodeCSS returns the stylesheet for highlighted code blocks.
func (c *Converter) CodeCSS() (string, error) {
	return c.highlighter.CSS()
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		return nil
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	if fileutil.IsCSS(input) {
		c.cfg.resolvedStyle = input
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, convertAssetError(err))
	}
	c.cfg.resolvedStyle = css
	return nil
}

func firstHeadingText(t *Tree) string {
	var title string
	t.Walk(func(s *Slide) bool {
		if title == "" && s.Heading != nil {
			title = s.Heading.Text()
		}
		return title == ""
	})
	return title
}
