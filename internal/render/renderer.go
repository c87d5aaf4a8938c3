package render

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/alnah/go-mdslide/internal/formula"
	"github.com/alnah/go-mdslide/internal/highlight"
	"github.com/alnah/go-mdslide/mdast"
)

// ErrMalformedNode indicates a node whose shape cannot be converted to HTML.
var ErrMalformedNode = errors.New("malformed node")

// CodeHighlighter renders a code block.
type CodeHighlighter interface {
	Highlight(code, lang string) (string, error)
}

// FormulaExtractor typesets math spans in a serialized fragment.
type FormulaExtractor interface {
	Extract(fragment string) (string, error)
}

// Renderer converts nodes to HTML. It holds no per-call state and is safe for
// concurrent use as long as its collaborators are.
type Renderer struct {
	highlighter CodeHighlighter
	extractor   FormulaExtractor
	sanitizer   *bluemonday.Policy
	logger      *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHighlighter sets the code highlighter.
func WithHighlighter(h CodeHighlighter) Option {
	return func(r *Renderer) {
		r.highlighter = h
	}
}

// WithExtractor sets the formula extractor.
func WithExtractor(e FormulaExtractor) Option {
	return func(r *Renderer) {
		r.extractor = e
	}
}

// WithSanitize enables sanitizing of raw HTML nodes with bluemonday's UGC policy.
func WithSanitize(enabled bool) Option {
	return func(r *Renderer) {
		if enabled {
			r.sanitizer = newSanitizer()
		} else {
			r.sanitizer = nil
		}
	}
}

// WithLogger sets the logger used to report malformed nodes.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Renderer. Unset collaborators default to a chroma highlighter
// and a fail-soft TreeBlood formula extractor.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	if r.highlighter == nil {
		h, err := highlight.New()
		if err != nil {
			return nil, err
		}
		r.highlighter = h
	}
	if r.extractor == nil {
		r.extractor = formula.NewExtractor(formula.TreeBlood{}, formula.PolicySoft)
	}
	return r, nil
}

// Render converts n to HTML. Lists are flattened into one block container per
// item and code blocks are highlighted. Failures are logged and yield "".
func (r *Renderer) Render(n *mdast.Node) string {
	out, err := r.TryRender(n)
	if err != nil {
		r.logFailure(n, err)
		return ""
	}
	return out
}

// RenderStructural converts n through the generic path only, so a list is
// serialized as a single <ul> or <ol>. Failures are logged and yield "".
func (r *Renderer) RenderStructural(n *mdast.Node) string {
	out, err := r.guard(func() (string, error) {
		return r.structural(n)
	})
	if err != nil {
		r.logFailure(n, err)
		return ""
	}
	return out
}

// TryRender is Render with the failure returned instead of logged.
func (r *Renderer) TryRender(n *mdast.Node) (string, error) {
	return r.guard(func() (string, error) {
		if n == nil {
			return "", fmt.Errorf("%w: nil node", ErrMalformedNode)
		}
		switch n.Type {
		case mdast.KindList:
			return r.list(n)
		case mdast.KindCode:
			return r.code(n)
		default:
			return r.structural(n)
		}
	})
}

// guard converts panics raised during conversion into ErrMalformedNode.
func (r *Renderer) guard(fn func() (string, error)) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, err = "", fmt.Errorf("%w: panic: %v", ErrMalformedNode, rec)
		}
	}()
	return fn()
}

// list renders each item on its own inside a <div>.
func (r *Renderer) list(n *mdast.Node) (string, error) {
	var sb strings.Builder
	for i, item := range n.Children {
		if item == nil || item.Type != mdast.KindListItem {
			return "", fmt.Errorf("%w: list child %d is not a listItem", ErrMalformedNode, i)
		}
		html, err := r.structural(item)
		if err != nil {
			return "", err
		}
		sb.WriteString("<div>")
		sb.WriteString(html)
		sb.WriteString("</div>")
	}
	return sb.String(), nil
}

func (r *Renderer) code(n *mdast.Node) (string, error) {
	out, err := r.highlightCode(n)
	if err != nil {
		return "", err
	}
	return r.extract(out)
}

// highlightCode returns highlighted markup with dollar signs encoded so the
// formula pass leaves code alone.
func (r *Renderer) highlightCode(n *mdast.Node) (string, error) {
	if len(n.Children) > 0 {
		return "", fmt.Errorf("%w: code node has children", ErrMalformedNode)
	}
	out, err := r.highlighter.Highlight(n.Value, n.Lang)
	if err != nil {
		return "", err
	}
	return protectDollars(out), nil
}

// structural runs generic conversion followed by the formula pass.
func (r *Renderer) structural(n *mdast.Node) (string, error) {
	hast, err := r.toHypertext(n)
	if err != nil {
		return "", err
	}
	shieldAttributes(hast)
	serialized, err := serialize(hast)
	if err != nil {
		return "", err
	}
	return r.extract(strings.ReplaceAll(serialized, mdast.EscapedDollar, "&#36;"))
}

func (r *Renderer) extract(fragment string) (string, error) {
	out, err := r.extractor.Extract(fragment)
	if err != nil {
		return "", fmt.Errorf("extract formulas: %w", err)
	}
	return out, nil
}

func (r *Renderer) logFailure(n *mdast.Node, err error) {
	kind := "<nil>"
	if n != nil {
		kind = string(n.Type)
	}
	r.logger.Warn("render node failed", "type", kind, "err", err)
}

func protectDollars(s string) string {
	return strings.ReplaceAll(s, "$", "&#36;")
}
