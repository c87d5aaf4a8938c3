package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	logFile string
}

// mathFlags holds formula typesetting flags.
type mathFlags struct {
	engine string
	policy string
}

// codeFlags holds syntax highlighting flags.
type codeFlags struct {
	style           string
	defaultLanguage string
	diagrams        []string
}

// pageFlags holds standalone page flags.
type pageFlags struct {
	title      string
	lang       string
	style      string
	css        string
	scripts    []string
	sanitize   bool
	noSanitize bool
	assetPath  string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	format  string
	workers int
	watch   bool
	math    mathFlags
	code    codeFlags
	page    pageFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and debug logs")
	fs.StringVar(&f.logFile, "log-file", "", "also write JSON logs to this file")
}

// addMathFlags adds formula flags to a FlagSet.
func addMathFlags(fs *flag.FlagSet, f *mathFlags) {
	fs.StringVar(&f.engine, "math-engine", "", "math engine: treeblood, client")
	fs.StringVar(&f.policy, "math-policy", "", "typeset failure policy: soft, strict")
}

// addCodeFlags adds highlighting flags to a FlagSet.
func addCodeFlags(fs *flag.FlagSet, f *codeFlags) {
	fs.StringVar(&f.style, "code-style", "", "chroma style for code blocks")
	fs.StringVar(&f.defaultLanguage, "code-lang", "", "lexer for code without a known language")
	fs.StringSliceVar(&f.diagrams, "diagram", nil, "code languages passed through unhighlighted (repeatable)")
}

// addPageFlags adds page flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVar(&f.title, "title", "", "page title (\"\" = frontmatter title, then first heading)")
	fs.StringVar(&f.lang, "lang", "", "page language")
	fs.StringVar(&f.style, "style", "", "deck style name, CSS file path, or CSS")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended after the deck style")
	fs.StringArrayVar(&f.scripts, "script", nil, "script URL added to the page (repeatable)")
	fs.BoolVar(&f.sanitize, "sanitize", false, "sanitize raw HTML in markdown")
	fs.BoolVar(&f.noSanitize, "no-sanitize", false, "keep raw HTML in markdown as is")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.format, "format", "f", "", "output format: html, json")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.watch, "watch", false, "convert again when inputs change")

	addCommonFlags(fs, &f.common)
	addMathFlags(fs, &f.math)
	addCodeFlags(fs, &f.code)
	addPageFlags(fs, &f.page)

	fs.Usage = func() { printConvertUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
