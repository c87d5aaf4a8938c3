// Package render converts mdast nodes into HTML fragments.
//
// Conversion goes through an intermediate golang.org/x/net/html node tree
// that is serialized with html.Render. Code blocks are delegated to a
// CodeHighlighter and every serialized fragment is passed through a
// FormulaExtractor so that $inline$ and $$display$$ math is typeset.
//
// Rendering is fail-soft: a node that cannot be converted is logged and
// rendered as the empty string.
package render
