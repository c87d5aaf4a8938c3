package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"

	mdslide "github.com/alnah/go-mdslide"
	"github.com/alnah/go-mdslide/internal/config"
	"github.com/alnah/go-mdslide/internal/fileutil"
	"github.com/alnah/go-mdslide/internal/formula"
	"github.com/alnah/go-mdslide/internal/hints"
)

// Sentinel errors for convert options.
var (
	ErrInvalidFormat  = errors.New("invalid output format")
	ErrScriptNotFound = errors.New("script file not found")
)

// runConvertCmd parses convert flags, runs the conversion and reports errors.
func runConvertCmd(args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}

	setMaxProcs(flags.common.verbose, env.Stderr)

	logger, closeLog, err := newLogger(flags.common, env.Stderr)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	defer func() { _ = closeLog() }()

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, logger, env); err != nil {
		fmt.Fprintln(env.Stderr, annotate(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, logger *slog.Logger, env *Environment) error {
	// Validate worker count early
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config)
	if err != nil {
		return err
	}

	// CLI wins over config
	mergeFlags(flags, cfg)
	if err := validateFormat(cfg.Output.Format); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	extraCSS, err := readExtraCSS(flags.page.css)
	if err != nil {
		return err
	}
	scripts, err := resolveScripts(flags.page.scripts)
	if err != nil {
		return err
	}

	opts, err := converterOptions(cfg, logger)
	if err != nil {
		return err
	}
	conv, err := mdslide.NewConverter(opts...)
	if err != nil {
		return err
	}

	params := &conversionParams{
		format:  strings.ToLower(cfg.Output.Format),
		title:   flags.page.title,
		lang:    cfg.HTML.Lang,
		css:     extraCSS,
		scripts: scripts,
		workers: mdslide.ResolveWorkers(flags.workers),
	}
	logger.Debug("converting",
		"input", inputPath,
		"format", params.format,
		"workers", params.workers,
		"math", cfg.Math.Engine,
		"codeStyle", cfg.Code.Style)

	discover := func() ([]FileToConvert, error) {
		files, err := discoverFiles(inputPath, outputDir, params.format)
		if err != nil {
			return nil, fmt.Errorf("discovering files: %w", err)
		}
		return files, nil
	}
	convert := func(files []FileToConvert) int {
		results := convertBatch(ctx, conv, files, params, env)
		return printResults(results, flags.common.quiet, flags.common.verbose, env)
	}

	files, err := discover()
	if err != nil {
		return err
	}
	if len(files) == 0 && !flags.watch {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	failedCount := convert(files)

	if flags.watch {
		return watchInputs(ctx, inputPath, discover, convert, logger)
	}
	if failedCount > 0 {
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}
	return nil
}

// loadConfig loads the named config, or the defaults when name is empty.
func loadConfig(name string) (*config.Config, error) {
	if name == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.format != "" {
		cfg.Output.Format = flags.format
	}

	// Math flags
	if flags.math.engine != "" {
		cfg.Math.Engine = flags.math.engine
	}
	if flags.math.policy != "" {
		cfg.Math.Policy = flags.math.policy
	}

	// Code flags
	if flags.code.style != "" {
		cfg.Code.Style = flags.code.style
	}
	if flags.code.defaultLanguage != "" {
		cfg.Code.DefaultLanguage = flags.code.defaultLanguage
	}
	if len(flags.code.diagrams) > 0 {
		cfg.Code.DiagramLanguages = flags.code.diagrams
	}

	// Page flags
	if flags.page.style != "" {
		cfg.HTML.Style = flags.page.style
	}
	if flags.page.lang != "" {
		cfg.HTML.Lang = flags.page.lang
	}
	if flags.page.sanitize {
		cfg.HTML.Sanitize = true
	}
	if flags.page.noSanitize {
		cfg.HTML.Sanitize = false
	}
	if flags.page.assetPath != "" {
		cfg.Assets.BasePath = flags.page.assetPath
	}
}

// converterOptions translates the merged config into converter options.
func converterOptions(cfg *config.Config, logger *slog.Logger) ([]mdslide.Option, error) {
	policy, err := formula.ParsePolicy(cfg.Math.Policy)
	if err != nil {
		return nil, err
	}

	opts := []mdslide.Option{
		mdslide.WithLogger(logger),
		mdslide.WithTypesetPolicy(policy),
		mdslide.WithSanitize(cfg.HTML.Sanitize),
	}
	if cfg.Math.Engine != "" {
		opts = append(opts, mdslide.WithMathEngine(cfg.Math.Engine))
	}
	if cfg.Code.Style != "" {
		opts = append(opts, mdslide.WithCodeStyle(cfg.Code.Style))
	}
	if cfg.Code.DefaultLanguage != "" {
		opts = append(opts, mdslide.WithDefaultLanguage(cfg.Code.DefaultLanguage))
	}
	if cfg.Code.DiagramLanguages != nil {
		opts = append(opts, mdslide.WithDiagramLanguages(cfg.Code.DiagramLanguages...))
	}
	if cfg.HTML.Style != "" {
		opts = append(opts, mdslide.WithStyle(cfg.HTML.Style))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, mdslide.WithAssetPath(cfg.Assets.BasePath))
	}
	return opts, nil
}

// validateFormat checks the output format name.
func validateFormat(format string) error {
	switch strings.ToLower(format) {
	case config.FormatHTML, config.FormatJSON:
		return nil
	}
	return fmt.Errorf("%w: %q (must be html or json)", ErrInvalidFormat, format)
}

// resolveInputPath returns the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir returns the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// readExtraCSS reads the --css file. An empty path yields no CSS.
func readExtraCSS(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(content), nil
}

// resolveScripts keeps URLs as they are and turns local script files into
// absolute file:// URLs, so the page works wherever it is written.
func resolveScripts(scripts []string) ([]string, error) {
	resolved := make([]string, 0, len(scripts))
	for _, s := range scripts {
		if fileutil.IsURL(s) {
			resolved = append(resolved, s)
			continue
		}
		abs, err := filepath.Abs(s)
		if err != nil || !fileutil.FileExists(abs) {
			return nil, fmt.Errorf("%w: %s", ErrScriptNotFound, s)
		}
		resolved = append(resolved, "file://"+filepath.ToSlash(abs))
	}
	return resolved, nil
}
