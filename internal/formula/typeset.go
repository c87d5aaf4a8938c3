package formula

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/wyatt915/treeblood"
)

// Typesetter renders TeX source as HTML markup.
type Typesetter interface {
	Typeset(src string, display bool) (string, error)
}

// Engine names accepted by NewTypesetter.
const (
	EngineTreeBlood = "treeblood"
	EngineClient    = "client"
)

var engines = map[string]func() Typesetter{
	EngineTreeBlood: func() Typesetter { return TreeBlood{} },
	EngineClient:    func() Typesetter { return Client{} },
}

// NewTypesetter returns the engine registered under name.
// The empty string selects the TreeBlood engine.
func NewTypesetter(name string) (Typesetter, error) {
	if name == "" {
		name = EngineTreeBlood
	}
	mk, ok := engines[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownEngine, name, strings.Join(Engines(), ", "))
	}
	return mk(), nil
}

// Engines lists the registered engine names in sorted order.
func Engines() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TreeBlood typesets TeX to MathML on the server side.
type TreeBlood struct{}

// Typeset converts src to a MathML <math> element.
func (TreeBlood) Typeset(src string, display bool) (string, error) {
	return treeblood.TexToMML(src, nil, display, false)
}

// Client leaves typesetting to a browser-side library such as KaTeX or
// MathJax by emitting the escaped source inside standard \( \) or \[ \]
// delimiters. It never fails.
type Client struct{}

// Typeset wraps src for client-side rendering.
func (Client) Typeset(src string, display bool) (string, error) {
	if display {
		return `<span class="math math-display">\[` + html.EscapeString(src) + `\]</span>`, nil
	}
	return `<span class="math math-inline">\(` + html.EscapeString(src) + `\)</span>`, nil
}
