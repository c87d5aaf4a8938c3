package mdslide

import (
	"log/slog"

	"github.com/alnah/go-mdslide/internal/formula"
	"github.com/alnah/go-mdslide/mdast"
)

// Math engine names accepted by WithMathEngine.
const (
	MathEngineTreeBlood = formula.EngineTreeBlood // TeX to MathML at build time
	MathEngineClient    = formula.EngineClient    // delimiters kept for KaTeX/MathJax
)

// TypesetPolicy decides what happens when a formula fails to typeset.
type TypesetPolicy = formula.Policy

// Typeset policies.
const (
	// TypesetSoft renders the failing formula as escaped source in a
	// span.math-error element. This is the default.
	TypesetSoft = formula.PolicySoft

	// TypesetStrict fails the node containing the formula. The node renders
	// as "" and the failure is logged.
	TypesetStrict = formula.PolicyStrict
)

// Typesetter renders one formula to HTML. display is true for $$...$$.
type Typesetter = formula.Typesetter

// Input contains conversion parameters. Exactly one of Markdown or AST is
// used; AST takes priority.
type Input struct {
	Markdown  string      // Markdown source, optionally with YAML frontmatter
	AST       *mdast.Node // Pre-parsed syntax tree from an external parser
	SourceDir string      // Base for relative resource paths in RenderPage (optional)
}

// Result is the output of a conversion.
type Result struct {
	Tree        *Tree
	Root        *mdast.Node
	Frontmatter map[string]any // nil when the source had none
	Title       string         // frontmatter title, else the first heading's text
}

// PageOptions controls standalone page assembly.
type PageOptions struct {
	Title     string   // <title>; empty falls back to "Slides"
	Lang      string   // <html lang>; empty falls back to "en"
	SourceDir string   // rewrite relative resource paths against this directory
	CSS       string   // extra CSS appended after the deck and code styles
	Scripts   []string // script URLs appended to <body>, e.g. a KaTeX bundle
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds converter configuration.
type converterConfig struct {
	logger           *slog.Logger
	mathEngine       string
	typesetter       Typesetter
	policy           TypesetPolicy
	codeStyle        string
	defaultLanguage  string
	diagramLanguages []string
	diagramsSet      bool
	sanitize         bool
	styleInput       string // name, file path, or CSS content
	resolvedStyle    string
	assetPath        string
}

// WithLogger sets the logger that reports nodes failing to render.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		c.cfg.logger = l
	}
}

// WithMathEngine selects a built-in typesetter by name.
// Unknown names make NewConverter fail with ErrUnknownMathEngine.
func WithMathEngine(name string) Option {
	return func(c *Converter) {
		c.cfg.mathEngine = name
	}
}

// WithTypesetter installs a custom typesetter. It takes priority over
// WithMathEngine.
func WithTypesetter(t Typesetter) Option {
	return func(c *Converter) {
		c.cfg.typesetter = t
	}
}

// WithTypesetPolicy sets the typeset failure policy.
func WithTypesetPolicy(p TypesetPolicy) Option {
	return func(c *Converter) {
		c.cfg.policy = p
	}
}

// WithCodeStyle sets the chroma style used by CodeCSS.
// Unknown names make NewConverter fail with ErrUnknownCodeStyle.
func WithCodeStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.codeStyle = name
	}
}

// WithDefaultLanguage sets the lexer used for code blocks whose language is
// unknown or cannot be detected.
func WithDefaultLanguage(lang string) Option {
	return func(c *Converter) {
		c.cfg.defaultLanguage = lang
	}
}

// WithDiagramLanguages replaces the code languages passed through
// unhighlighted for client-side diagram renderers.
func WithDiagramLanguages(langs ...string) Option {
	return func(c *Converter) {
		c.cfg.diagramLanguages = langs
		c.cfg.diagramsSet = true
	}
}

// WithSanitize enables sanitizing of raw HTML found in the markdown.
func WithSanitize(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.sanitize = enabled
	}
}

// WithStyle sets the deck stylesheet for RenderPage.
// Accepts a style name ("dark"), a file path ("./brand.css"), or CSS content.
// Detection order: path (contains / or \), CSS (contains {), else name.
func WithStyle(input string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = input
	}
}

// WithAssetPath loads styles and templates from a directory, falling back to
// the embedded ones. Invalid paths make NewConverter fail with
// ErrInvalidAssetPath.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithAssetLoader sets a custom asset loader. It takes priority over
// WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.publicAssetLoader = loader
	}
}
