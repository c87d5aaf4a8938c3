package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	mdslide "github.com/alnah/go-mdslide"
	"github.com/alnah/go-mdslide/internal/config"
	"github.com/alnah/go-mdslide/internal/fileutil"
	"github.com/alnah/go-mdslide/mdast"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput         = errors.New("no input specified")
	ErrReadInput       = errors.New("failed to read input file")
	ErrReadCSS         = errors.New("failed to read CSS file")
	ErrWriteOutput     = errors.New("failed to write output file")
	ErrCreateOutputDir = errors.New("failed to create output directory")
)

// SlideConverter is the interface for the conversion service.
type SlideConverter interface {
	Convert(ctx context.Context, input mdslide.Input) (*mdslide.Result, error)
	RenderPage(ctx context.Context, tree *mdslide.Tree, opts mdslide.PageOptions) (string, error)
}

// Compile-time interface implementation check.
var _ SlideConverter = (*mdslide.Converter)(nil)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Slides     int
	Err        error
	Duration   time.Duration
}

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	format  string
	title   string // overrides the title found in the document
	lang    string
	css     string
	scripts []string
	workers int
}

// pageOptions returns the page settings for one converted document.
func (p *conversionParams) pageOptions(res *mdslide.Result, sourceDir string) mdslide.PageOptions {
	title := p.title
	if title == "" {
		title = res.Title
	}
	return mdslide.PageOptions{
		Title:     title,
		Lang:      p.lang,
		SourceDir: sourceDir,
		CSS:       p.css,
		Scripts:   p.scripts,
	}
}

// convertBatch processes files concurrently, at most params.workers at a
// time. The converter is shared: it holds no per-conversion state.
func convertBatch(ctx context.Context, conv SlideConverter, files []FileToConvert, params *conversionParams, env *Environment) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	results := make([]ConversionResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(params.workers, len(files))))

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = ConversionResult{InputPath: f.InputPath, Err: err}
				return nil
			}
			results[i] = convertFile(gctx, conv, f, params, env.Now)
			return nil
		})
	}

	_ = g.Wait() // workers record failures in results
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv SlideConverter, f FileToConvert, params *conversionParams, now func() time.Time) ConversionResult {
	start := now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	done := func(err error) ConversionResult {
		result.Err = err
		result.Duration = now().Sub(start)
		return result
	}

	input, err := readInput(f.InputPath)
	if err != nil {
		return done(err)
	}

	res, err := conv.Convert(ctx, input)
	if err != nil {
		return done(err)
	}
	result.Slides = res.Tree.Len()

	var out []byte
	if params.format == config.FormatJSON {
		out, err = marshalDeck(res)
	} else {
		var page string
		page, err = conv.RenderPage(ctx, res.Tree, params.pageOptions(res, input.SourceDir))
		out = []byte(page)
	}
	if err != nil {
		return done(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return done(fmt.Errorf("%w: %v", ErrCreateOutputDir, err))
	}
	if err := fileutil.WriteFileAtomic(f.OutputPath, out, filePermissions); err != nil {
		return done(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	return done(nil)
}

// readInput loads a markdown file, or an mdast JSON document for .json files.
func readInput(path string) (mdslide.Input, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- discovered path
	if err != nil {
		return mdslide.Input{}, fmt.Errorf("%w: %v", ErrReadInput, err)
	}

	input := mdslide.Input{SourceDir: filepath.Dir(path)}
	if isTreeInput(path) {
		root, err := mdast.Unmarshal(content)
		if err != nil {
			return mdslide.Input{}, err
		}
		input.AST = root
		return input, nil
	}

	input.Markdown = string(content)
	return input, nil
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults outputs conversion results and returns the failure count.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	failed := color.New(color.FgRed, color.Bold)
	created := color.New(color.FgGreen)
	if !env.Color {
		failed.DisableColor()
		created.DisableColor()
	}

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "%s %s: %v\n", failed.Sprint("FAILED"), r.InputPath, annotate(r.Err))
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d slides, %v)\n",
				r.InputPath, r.OutputPath, r.Slides, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "%s %s\n", created.Sprint("Created"), r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
