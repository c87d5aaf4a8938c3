// Package formula finds $inline$ and $$display$$ math spans in serialized HTML
// and replaces them with typeset markup.
//
// Extraction runs after a fragment has been rendered: math delimiters are
// literal dollar signs that survive serialization as text content. Code is
// expected to reach this package with its dollar signs already encoded as
// &#36; so that it is never typeset.
package formula

import (
	"errors"
	"fmt"
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sentinel errors for formula operations.
var (
	ErrTypeset       = errors.New("typesetting failed")
	ErrUnknownEngine = errors.New("unknown math engine")
	ErrUnknownPolicy = errors.New("unknown typeset failure policy")
)

// Policy decides what happens when a formula cannot be typeset.
type Policy int

const (
	// PolicySoft renders the delimited source as fallback text and continues.
	PolicySoft Policy = iota
	// PolicyStrict aborts extraction with an error wrapping ErrTypeset.
	PolicyStrict
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicySoft:
		return "soft"
	case PolicyStrict:
		return "strict"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses a policy name. The empty string selects PolicySoft.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "soft":
		return PolicySoft, nil
	case "strict":
		return PolicyStrict, nil
	}
	return PolicySoft, fmt.Errorf("%w: %q (must be soft or strict)", ErrUnknownPolicy, s)
}

type state int

const (
	outside state = iota
	inInline
	inDisplay
)

// Extractor replaces math spans in HTML fragments. It holds no mutable state
// and is safe for concurrent use.
type Extractor struct {
	typesetter Typesetter
	policy     Policy
}

// NewExtractor returns an Extractor using t to typeset formulas.
// A nil t selects the TreeBlood engine.
func NewExtractor(t Typesetter, policy Policy) *Extractor {
	if t == nil {
		t = TreeBlood{}
	}
	return &Extractor{typesetter: t, policy: policy}
}

// Policy returns the configured failure policy.
func (e *Extractor) Policy() Policy {
	return e.policy
}

// Extract scans fragment for math delimiters and returns it with every
// terminated formula typeset. An unterminated formula is emitted unchanged.
// The error is non-nil only under PolicyStrict.
func (e *Extractor) Extract(fragment string) (string, error) {
	if strings.IndexByte(fragment, '$') < 0 {
		return fragment, nil
	}

	var out, buf strings.Builder
	out.Grow(len(fragment))
	st := outside

	for i := 0; i < len(fragment); i++ {
		c := fragment[i]
		switch st {
		case outside:
			if c != '$' {
				out.WriteByte(c)
				continue
			}
			buf.Reset()
			if i+1 < len(fragment) && fragment[i+1] == '$' {
				i++
				st = inDisplay
			} else {
				st = inInline
			}
		case inInline:
			if c != '$' {
				buf.WriteByte(c)
				continue
			}
			typeset, err := e.typeset(buf.String(), false)
			if err != nil {
				return "", err
			}
			out.WriteString(typeset)
			st = outside
		case inDisplay:
			if c != '$' || i+1 >= len(fragment) || fragment[i+1] != '$' {
				buf.WriteByte(c)
				continue
			}
			i++
			typeset, err := e.typeset(buf.String(), true)
			if err != nil {
				return "", err
			}
			out.WriteString(typeset)
			st = outside
		}
	}

	switch st {
	case inInline:
		out.WriteString("$")
		out.WriteString(buf.String())
	case inDisplay:
		out.WriteString("$$")
		out.WriteString(buf.String())
	}
	return out.String(), nil
}

// typeset renders one buffered formula. raw is HTML as found in the fragment.
func (e *Extractor) typeset(raw string, display bool) (string, error) {
	src := textContent(raw)
	result, err := safeTypeset(e.typesetter, src, display)
	if err == nil {
		return result, nil
	}
	if e.policy == PolicyStrict {
		return "", fmt.Errorf("%w: %q: %v", ErrTypeset, src, err)
	}
	delim := "$"
	if display {
		delim = "$$"
	}
	return `<span class="math-error" title="` + html.EscapeString(err.Error()) + `">` +
		delim + raw + delim + `</span>`, nil
}

// safeTypeset converts a typesetter panic into an error.
func safeTypeset(t Typesetter, src string, display bool) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("typesetter panic: %v", r)
		}
	}()
	return t.Typeset(src, display)
}

// textContent reduces an HTML snippet to its text, decoding entities and
// dropping inline markup.
func textContent(raw string) string {
	if !strings.ContainsAny(raw, "<&") {
		return raw
	}
	context := &nethtml.Node{Type: nethtml.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := nethtml.ParseFragment(strings.NewReader(raw), context)
	if err != nil {
		return html.UnescapeString(raw)
	}
	var sb strings.Builder
	var collect func(*nethtml.Node)
	collect = func(n *nethtml.Node) {
		if n.Type == nethtml.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	for _, n := range nodes {
		collect(n)
	}
	return sb.String()
}
