package mdslide

// Notes:
// - Converters use the client math engine unless a test is about TreeBlood,
//   so expected HTML does not depend on MathML output.
// - withPreprocessor injects a panicking preprocessor to test recovery.

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-mdslide/internal/pipeline"
	"github.com/alnah/go-mdslide/mdast"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

type panicPreprocessor struct{}

func (panicPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	panic("preprocessor exploded")
}

func withPreprocessor(p pipeline.MarkdownPreprocessor) Option {
	return func(c *Converter) {
		c.preprocessor = p
	}
}

type failingTypesetter struct{}

func (failingTypesetter) Typeset(src string, display bool) (string, error) {
	return "", errors.New("undefined control sequence")
}

type mockAssetLoader struct {
	styles    map[string]string
	templates map[string]string
}

func (m *mockAssetLoader) LoadStyle(name string) (string, error) {
	if css, ok := m.styles[name]; ok {
		return css, nil
	}
	return "", ErrStyleNotFound
}

func (m *mockAssetLoader) LoadTemplate(name string) (string, error) {
	if tpl, ok := m.templates[name]; ok {
		return tpl, nil
	}
	return "", ErrTemplateNotFound
}

func newTestConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()
	opts = append([]Option{WithMathEngine(MathEngineClient)}, opts...)
	c, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	return c
}

// ---------------------------------------------------------------------------
// TestNewConverter - Option validation
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "defaults"},
		{name: "client engine", opts: []Option{WithMathEngine("client")}},
		{name: "custom typesetter", opts: []Option{WithTypesetter(failingTypesetter{})}},
		{name: "code style", opts: []Option{WithCodeStyle("monokai")}},
		{name: "inline CSS style", opts: []Option{WithStyle("section { color: red }")}},
		{name: "embedded dark style", opts: []Option{WithStyle("dark")}},
		{name: "nil logger", opts: []Option{WithLogger(nil)}},
		{
			name:    "unknown math engine",
			opts:    []Option{WithMathEngine("mathjax")},
			wantErr: ErrUnknownMathEngine,
		},
		{
			name:    "unknown code style",
			opts:    []Option{WithCodeStyle("no-such-style")},
			wantErr: ErrUnknownCodeStyle,
		},
		{
			name:    "unknown style name",
			opts:    []Option{WithStyle("no-such-style")},
			wantErr: ErrStyleNotFound,
		},
		{
			name:    "missing asset path",
			opts:    []Option{WithAssetPath("/nonexistent/mdslide/assets")},
			wantErr: ErrInvalidAssetPath,
		},
		{
			name:    "missing template from custom loader",
			opts:    []Option{WithAssetLoader(&mockAssetLoader{styles: map[string]string{"default": "x{}"}})},
			wantErr: ErrTemplateNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewConverter(tt.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewConverter() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewConverter() unexpected error: %v", err)
			}
			if c.renderer == nil || c.builder == nil || c.page == nil {
				t.Error("converter is not fully initialized")
			}
		})
	}
}

func TestNewConverter_StyleFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "brand.css")
	if err := os.WriteFile(path, []byte(".slide { color: teal; }"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := newTestConverter(t, WithStyle(path))
	if c.cfg.resolvedStyle != ".slide { color: teal; }" {
		t.Errorf("resolvedStyle = %q", c.cfg.resolvedStyle)
	}

	if _, err := NewConverter(WithStyle(filepath.Join(t.TempDir(), "missing.css"))); err == nil {
		t.Error("expected error for missing style file")
	}
}

// ---------------------------------------------------------------------------
// TestConvert
// ---------------------------------------------------------------------------

func TestConvert_EndToEnd(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t)
	res, err := c.Convert(context.Background(), Input{Markdown: "intro\n\n# Title\n\nbody\n"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	slides := res.Tree.Slides
	if len(slides) != 2 {
		t.Fatalf("got %d top-level slides, want 2", len(slides))
	}
	if !slides[0].Synthetic || slides[0].Depth != 1 {
		t.Errorf("first slide = %+v, want synthetic depth 1", slides[0])
	}
	if got := res.Tree.ContentHTML(slides[0]); got != "<p>intro</p>" {
		t.Errorf("intro content = %q", got)
	}
	if slides[1].Title != "Title" || slides[1].HTML != "<h1>Title</h1>" {
		t.Errorf("second slide title=%q html=%q", slides[1].Title, slides[1].HTML)
	}
	if got := res.Tree.ContentHTML(slides[1]); got != "<p>body</p>" {
		t.Errorf("body content = %q", got)
	}
	if res.Title != "Title" {
		t.Errorf("Result.Title = %q, want first heading text", res.Title)
	}
	if res.Frontmatter != nil {
		t.Errorf("Frontmatter = %v, want nil", res.Frontmatter)
	}
}

func TestConvert_Frontmatter(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t)
	md := "---\ntitle: Quarterly Review\nauthor: Ops\n---\n# Agenda\n"
	res, err := c.Convert(context.Background(), Input{Markdown: md})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if res.Title != "Quarterly Review" {
		t.Errorf("Title = %q, want frontmatter title", res.Title)
	}
	if res.Frontmatter["author"] != "Ops" {
		t.Errorf("Frontmatter = %v", res.Frontmatter)
	}
	if len(res.Tree.Slides) != 1 || res.Tree.Slides[0].Title != "Agenda" {
		t.Errorf("slides = %+v, want single Agenda slide", shapeOf(res.Tree.Slides))
	}

	_, err = c.Convert(context.Background(), Input{Markdown: "---\ntitle: [unclosed\n---\n# x\n"})
	if !errors.Is(err, ErrInvalidFrontmatter) {
		t.Errorf("bad frontmatter error = %v, want ErrInvalidFrontmatter", err)
	}
}

func TestConvert_AST(t *testing.T) {
	t.Parallel()

	root, err := mdast.Unmarshal([]byte(`{"type":"root","children":[
		{"type":"paragraph","children":[{"type":"text","value":"intro"}]},
		{"type":"heading","depth":1,"children":[{"type":"text","value":"Title"}]},
		{"type":"paragraph","children":[{"type":"text","value":"body"}]}
	]}`))
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	c := newTestConverter(t)
	res, err := c.Convert(context.Background(), Input{AST: root, Markdown: "# ignored"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if res.Root != root {
		t.Error("Result.Root should be the supplied tree")
	}
	if got := len(res.Tree.Slides); got != 2 {
		t.Fatalf("got %d slides, want 2", got)
	}
	if res.Title != "Title" {
		t.Errorf("Title = %q", res.Title)
	}
	if root.Children[0].Parent() != root {
		t.Error("supplied tree should be linked")
	}
}

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t)

	if _, err := c.Convert(context.Background(), Input{}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty input error = %v, want ErrEmptyInput", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Convert(ctx, Input{Markdown: "# x"}); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled context error = %v, want context.Canceled", err)
	}

	panicky := newTestConverter(t, withPreprocessor(panicPreprocessor{}))
	_, err := panicky.Convert(context.Background(), Input{Markdown: "# x"})
	if err == nil || !strings.Contains(err.Error(), "internal error") {
		t.Errorf("panic error = %v, want internal error", err)
	}
}

// ---------------------------------------------------------------------------
// TestConvert - Rendering through the facade
// ---------------------------------------------------------------------------

func TestConvert_CodeBlocks(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t)
	md := "# Code\n\n```python\ndef total(xs):\n    return f\"${sum(xs)}\"\n```\n\n```mermaid\ngraph TD; A-->B\n```\n"
	res, err := c.Convert(context.Background(), Input{Markdown: md})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	content := res.Tree.Slides[0].Content
	if len(content) != 2 {
		t.Fatalf("got %d content nodes, want 2", len(content))
	}

	python := c.Render(content[0])
	if !strings.Contains(python, `<pre class="chroma"><code class="language-python">`) {
		t.Errorf("python block = %q, want chroma markup", python)
	}
	if strings.Contains(python, "$") || strings.Contains(python, "math") {
		t.Errorf("python block = %q, dollar signs must not be typeset", python)
	}

	mermaid := c.Render(content[1])
	want := `<pre><code class="language-mermaid">graph TD; A--&gt;B`
	if !strings.HasPrefix(mermaid, want) || !strings.HasSuffix(mermaid, "</code></pre>") {
		t.Errorf("mermaid block = %q, want unhighlighted %q", mermaid, want)
	}
}

func TestConvert_Math(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t)
	res, err := c.Convert(context.Background(), Input{Markdown: "# M\n\na $x+1$ b\n"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	got := res.Tree.ContentHTML(res.Tree.Slides[0])
	want := `<p>a <span class="math math-inline">\(x+1\)</span> b</p>`
	if got != want {
		t.Errorf("ContentHTML() = %q, want %q", got, want)
	}
}

func TestConvert_StrictTypesetFailure(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	c := newTestConverter(t,
		WithTypesetter(failingTypesetter{}),
		WithTypesetPolicy(TypesetStrict),
		WithLogger(logger),
	)

	res, err := c.Convert(context.Background(), Input{Markdown: "# M\n\nbad $\\foo$\n\nfine\n"})
	if err != nil {
		t.Fatalf("Convert() error = %v, typeset failures must stay local", err)
	}
	if got := res.Tree.ContentHTML(res.Tree.Slides[0]); got != "<p>fine</p>" {
		t.Errorf("ContentHTML() = %q, want failing paragraph dropped", got)
	}
	if !strings.Contains(logs.String(), "render node failed") || !strings.Contains(logs.String(), "type=paragraph") {
		t.Errorf("log = %q, want render failure for paragraph", logs.String())
	}
}

func TestConvert_SoftTypesetFailure(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t, WithTypesetter(failingTypesetter{}))
	res, err := c.Convert(context.Background(), Input{Markdown: "# M\n\nbad $x$\n"})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	got := res.Tree.ContentHTML(res.Tree.Slides[0])
	if !strings.Contains(got, `<span class="math-error"`) || !strings.Contains(got, "$x$") {
		t.Errorf("ContentHTML() = %q, want soft fallback", got)
	}
}

func TestConvert_Sanitize(t *testing.T) {
	t.Parallel()

	md := "# H\n\n<div onclick=\"steal()\">hi</div>\n"

	raw := newTestConverter(t)
	res, err := raw.Convert(context.Background(), Input{Markdown: md})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.Tree.ContentHTML(res.Tree.Slides[0]), "onclick") {
		t.Error("raw HTML should pass through when sanitizing is off")
	}

	safe := newTestConverter(t, WithSanitize(true))
	res, err = safe.Convert(context.Background(), Input{Markdown: md})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(res.Tree.ContentHTML(res.Tree.Slides[0]), "onclick") {
		t.Error("event handler should be removed when sanitizing")
	}
}

func TestConvert_DiagramLanguages(t *testing.T) {
	t.Parallel()

	c := newTestConverter(t, WithDiagramLanguages("dot"))
	if got := c.Render(mdast.NewCode("dot", "a -> b")); !strings.HasPrefix(got, `<pre><code class="language-dot">`) {
		t.Errorf("dot block = %q, want pass-through", got)
	}
	if got := c.Render(mdast.NewCode("mermaid", "graph")); !strings.HasPrefix(got, `<pre class="chroma">`) {
		t.Errorf("mermaid block = %q, want highlighted once no longer reserved", got)
	}
}

func TestCodeCSS(t *testing.T) {
	t.Parallel()

	css, err := newTestConverter(t).CodeCSS()
	if err != nil {
		t.Fatalf("CodeCSS() error = %v", err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Errorf("CodeCSS() missing .chroma rules: %q", css)
	}
}

// ---------------------------------------------------------------------------
// TestResolveWorkers
// ---------------------------------------------------------------------------

func TestResolveWorkers(t *testing.T) {
	t.Parallel()

	if got := ResolveWorkers(3); got != 3 {
		t.Errorf("ResolveWorkers(3) = %d, want 3", got)
	}
	got := ResolveWorkers(0)
	if got < MinWorkers || got > MaxWorkers {
		t.Errorf("ResolveWorkers(0) = %d, want within [%d, %d]", got, MinWorkers, MaxWorkers)
	}
}
