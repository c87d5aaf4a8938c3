// Package highlight renders fenced code blocks as syntax-highlighted HTML
// using chroma.
package highlight

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Defaults applied by New.
const (
	DefaultStyle    = "github"
	DefaultLanguage = "plaintext"
	DefaultDiagram  = "mermaid"
)

// Sentinel errors for highlighting.
var (
	ErrUnknownStyle = errors.New("unknown highlight style")
	ErrHighlight    = errors.New("highlighting failed")
)

// Highlighter turns code into HTML. It is immutable after New and safe for
// concurrent use.
type Highlighter struct {
	style           *chroma.Style
	formatter       *chromahtml.Formatter
	defaultLanguage string
	diagrams        map[string]struct{}
}

// Option configures a Highlighter.
type Option func(*Highlighter) error

// WithStyle selects a chroma style by name.
func WithStyle(name string) Option {
	return func(h *Highlighter) error {
		style, ok := styles.Registry[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownStyle, name)
		}
		h.style = style
		return nil
	}
}

// WithDefaultLanguage sets the lexer used when a language is unrecognized or
// cannot be detected.
func WithDefaultLanguage(lang string) Option {
	return func(h *Highlighter) error {
		if lang != "" {
			h.defaultLanguage = lang
		}
		return nil
	}
}

// WithDiagramLanguages replaces the set of reserved diagram languages.
func WithDiagramLanguages(langs ...string) Option {
	return func(h *Highlighter) error {
		h.diagrams = make(map[string]struct{}, len(langs))
		for _, l := range langs {
			if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
				h.diagrams[l] = struct{}{}
			}
		}
		return nil
	}
}

// New creates a Highlighter.
func New(opts ...Option) (*Highlighter, error) {
	h := &Highlighter{
		style:           styles.Get(DefaultStyle),
		defaultLanguage: DefaultLanguage,
		diagrams:        map[string]struct{}{DefaultDiagram: {}},
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// IsDiagram reports whether lang is a reserved diagram language.
func (h *Highlighter) IsDiagram(lang string) bool {
	_, ok := h.diagrams[strings.ToLower(lang)]
	return ok
}

// Lexer picks the lexer for code: the named language if chroma knows it,
// auto-detection when lang is empty, and the default lexer otherwise.
func (h *Highlighter) Lexer(code, lang string) chroma.Lexer {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	} else {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Get(h.defaultLanguage)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return lexer
}

// Highlight renders code wrapped in <pre><code>. Diagram languages are
// escaped without highlighting so a client-side renderer can pick them up.
func (h *Highlighter) Highlight(code, lang string) (string, error) {
	lang = strings.TrimSpace(lang)
	if h.IsDiagram(lang) {
		return `<pre><code class="language-` + html.EscapeString(strings.ToLower(lang)) + `">` +
			html.EscapeString(code) + "</code></pre>", nil
	}

	lexer := chroma.Coalesce(h.Lexer(code, lang))
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("%w: tokenise %s: %v", ErrHighlight, lexer.Config().Name, err)
	}

	var sb strings.Builder
	sb.WriteString(`<pre class="chroma"><code`)
	if lang != "" {
		sb.WriteString(` class="language-`)
		sb.WriteString(html.EscapeString(lang))
		sb.WriteString(`"`)
	}
	sb.WriteString(">")
	if err := h.formatter.Format(&sb, h.style, iterator); err != nil {
		return "", fmt.Errorf("%w: format: %v", ErrHighlight, err)
	}
	sb.WriteString("</code></pre>")
	return sb.String(), nil
}

// CSS returns the stylesheet for the configured style's classes.
func (h *Highlighter) CSS() (string, error) {
	var sb strings.Builder
	if err := h.formatter.WriteCSS(&sb, h.style); err != nil {
		return "", fmt.Errorf("%w: css: %v", ErrHighlight, err)
	}
	return sb.String(), nil
}

// Styles lists the available chroma style names.
func Styles() []string {
	return styles.Names()
}
