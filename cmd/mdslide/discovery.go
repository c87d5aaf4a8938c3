package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	mdslide "github.com/alnah/go-mdslide"
	"github.com/alnah/go-mdslide/internal/config"
	"github.com/alnah/go-mdslide/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("unsupported input extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// Output extensions, without the leading dot.
const (
	htmlExtension = "html"
	jsonExtension = "slides.json"
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all inputs to convert under inputPath.
// Directories are walked recursively; previously written decks are skipped.
func discoverFiles(inputPath, outputDir, format string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateInputExtension(inputPath); err != nil {
			return nil, err
		}
		outPath, err := resolveOutputPath(inputPath, outputDir, "", format)
		if err != nil {
			return nil, err
		}
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !isInputFile(path) {
			return nil
		}
		outPath, err := resolveOutputPath(path, outputDir, inputPath, format)
		if err != nil {
			return err
		}
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// isInputFile reports whether path is markdown or an mdast JSON document.
// Decks written in json format are not inputs.
func isInputFile(path string) bool {
	if strings.HasSuffix(path, "."+jsonExtension) {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".json":
		return true
	}
	return false
}

// isTreeInput reports whether path holds a pre-parsed syntax tree.
func isTreeInput(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// resolveOutputPath determines the output path for an input file.
// An outputDir ending in the format's extension names the output file.
func resolveOutputPath(inputPath, outputDir, baseInputDir, format string) (string, error) {
	ext := htmlExtension
	if format == config.FormatJSON {
		ext = jsonExtension
	}

	name, err := fileutil.ReplaceExt(filepath.Base(inputPath), ext)
	if err != nil {
		return "", err
	}

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), name), nil
	}

	if strings.HasSuffix(outputDir, "."+ext) {
		return outputDir, nil
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), name), nil
		}
	}

	return filepath.Join(outputDir, name), nil
}

// validateInputExtension checks that a file named on the command line can be read.
func validateInputExtension(path string) error {
	if !isInputFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mdslide.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mdslide.MaxWorkers)
	}
	return nil
}
