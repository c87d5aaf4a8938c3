// Package mdslide turns Markdown documents into presentation slides.
//
// # Quick Start
//
// Create a converter and convert markdown into a slide tree:
//
//	conv, err := mdslide.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := conv.Convert(ctx, mdslide.Input{
//	    Markdown: "# Hello\n\nWorld",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page, err := conv.RenderPage(ctx, result.Tree, mdslide.PageOptions{Title: result.Title})
//
// # Slide Structure
//
// Every heading opens a slide. A heading closes every open slide of the
// same or greater depth and nests under the closest shallower one, so
//
//	# A
//	## B
//	## C
//	# D
//
// yields two top-level slides, A (with children B and C) and D. Content
// before the first heading is collected into one synthetic depth-1 slide.
// The non-heading nodes following a heading belong to its slide, in order.
//
// # Rendering
//
// Nodes render to HTML through a structural mdast-to-HTML conversion. Code
// blocks are highlighted with chroma (diagram languages such as mermaid are
// passed through), and $...$ / $$...$$ spans are typeset after
// serialization. Failures are local: a node that cannot be rendered produces
// "" and is logged, its siblings are unaffected.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := mdslide.NewConverter(
//	    mdslide.WithMathEngine(mdslide.MathEngineClient),
//	    mdslide.WithTypesetPolicy(mdslide.TypesetStrict),
//	    mdslide.WithCodeStyle("monokai"),
//	    mdslide.WithStyle("dark"),
//	    mdslide.WithLogger(logger),
//	)
//
// # Parallel Processing
//
// A Converter is safe for concurrent use. For batch conversion, size the
// number of concurrent conversions with ResolveWorkers.
package mdslide
