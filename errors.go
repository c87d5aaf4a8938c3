package mdslide

import (
	"errors"

	"github.com/alnah/go-mdslide/internal/assets"
	"github.com/alnah/go-mdslide/internal/formula"
	"github.com/alnah/go-mdslide/internal/highlight"
	"github.com/alnah/go-mdslide/internal/pipeline"
	"github.com/alnah/go-mdslide/internal/render"
	"github.com/alnah/go-mdslide/mdast"
)

// Sentinel errors for library operations.
var (
	ErrEmptyInput = errors.New("input has neither markdown nor syntax tree")

	// Parsing errors.
	ErrParse              = pipeline.ErrParse
	ErrInvalidFrontmatter = pipeline.ErrFrontmatter
	ErrDecode             = mdast.ErrDecode

	// Rendering errors. Both are reported per node: a failing node renders as
	// "" and is logged, the rest of the deck is unaffected.
	ErrMalformedNode = render.ErrMalformedNode
	ErrTypeset       = formula.ErrTypeset

	// Option errors.
	ErrUnknownMathEngine = formula.ErrUnknownEngine
	ErrUnknownCodeStyle  = highlight.ErrUnknownStyle

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrPageRender       = errors.New("page rendering failed")
)

// convertAssetError maps internal asset errors to public errors.
func convertAssetError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, assets.ErrStyleNotFound), errors.Is(err, assets.ErrInvalidAssetName):
		return wrapError(ErrStyleNotFound, err)
	case errors.Is(err, assets.ErrTemplateNotFound):
		return wrapError(ErrTemplateNotFound, err)
	case errors.Is(err, assets.ErrInvalidBasePath), errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidAssetPath, err)
	default:
		return err
	}
}

// wrapError returns an error that prints like original and matches sentinel
// with errors.Is. Internal sentinels are not exposed.
func wrapError(sentinel, original error) error {
	return &wrappedAssetError{sentinel: sentinel, original: original}
}

type wrappedAssetError struct {
	sentinel error
	original error
}

func (e *wrappedAssetError) Error() string {
	return e.original.Error()
}

func (e *wrappedAssetError) Unwrap() error {
	return e.sentinel
}
