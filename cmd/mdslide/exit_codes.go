package main

import (
	"errors"
	"fmt"
	"os"

	mdslide "github.com/alnah/go-mdslide"
	"github.com/alnah/go-mdslide/internal/config"
	"github.com/alnah/go-mdslide/internal/formula"
	"github.com/alnah/go-mdslide/internal/highlight"
	"github.com/alnah/go-mdslide/internal/hints"
)

// Exit codes for the mdslide CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrCreateOutputDir) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrOpenLogFile) ||
		errors.Is(err, ErrWatch) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, formula.ErrUnknownPolicy) ||
		errors.Is(err, mdslide.ErrUnknownMathEngine) ||
		errors.Is(err, mdslide.ErrUnknownCodeStyle) ||
		errors.Is(err, mdslide.ErrStyleNotFound) ||
		errors.Is(err, mdslide.ErrTemplateNotFound) ||
		errors.Is(err, mdslide.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrScriptNotFound) {
		return ExitUsage
	}

	return ExitGeneral
}

// annotate appends an actionable hint to errors users can fix themselves.
func annotate(err error) error {
	var hint string
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mdslide.ErrStyleNotFound):
		hint = hints.ForStyleNotFound(mdslide.StyleNames())
	case errors.Is(err, mdslide.ErrUnknownCodeStyle):
		hint = hints.ForCodeStyle(highlight.Styles())
	case errors.Is(err, mdslide.ErrUnknownMathEngine):
		hint = hints.ForMathEngine(formula.Engines())
	case errors.Is(err, ErrInvalidExtension):
		hint = hints.ForUnsupportedInput()
	case errors.Is(err, ErrCreateOutputDir):
		hint = hints.ForOutputDirectory()
	}
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}
