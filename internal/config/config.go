package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-mdslide/internal/fileutil"
	"github.com/alnah/go-mdslide/internal/formula"
	"github.com/alnah/go-mdslide/internal/highlight"
	"github.com/alnah/go-mdslide/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPathLength     = 4096
	MaxNameLength     = 64 // style, engine, language names
	MaxStyleLength    = 1 << 16
	MaxDiagramLangs   = 16
	MaxLanguageLength = 32
)

// Output formats.
const (
	FormatHTML = "html"
	FormatJSON = "json"
)

// Config holds all configuration for deck generation.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Math   MathConfig   `yaml:"math"`
	Code   CodeConfig   `yaml:"code"`
	HTML   HTMLConfig   `yaml:"html"`
	Assets AssetsConfig `yaml:"assets"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Format     string `yaml:"format"`     // "html" (default) or "json"
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// MathConfig defines formula typesetting.
type MathConfig struct {
	Engine string `yaml:"engine"` // "treeblood" (default) or "client"
	Policy string `yaml:"policy"` // "soft" (default) or "strict"
}

// CodeConfig defines syntax highlighting.
type CodeConfig struct {
	Style            string   `yaml:"style"`            // chroma style (default: github)
	DefaultLanguage  string   `yaml:"defaultLanguage"`  // lexer used when none is detected
	DiagramLanguages []string `yaml:"diagramLanguages"` // passed through unhighlighted
}

// HTMLConfig defines page output options.
type HTMLConfig struct {
	Sanitize bool   `yaml:"sanitize"`
	Style    string `yaml:"style"` // style name, path, or inline CSS
	Lang     string `yaml:"lang"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for callers who build a
// Config by hand.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"output.format", c.Output.Format, MaxNameLength},
		{"math.engine", c.Math.Engine, MaxNameLength},
		{"math.policy", c.Math.Policy, MaxNameLength},
		{"code.style", c.Code.Style, MaxNameLength},
		{"code.defaultLanguage", c.Code.DefaultLanguage, MaxLanguageLength},
		{"html.style", c.HTML.Style, MaxStyleLength},
		{"html.lang", c.HTML.Lang, MaxLanguageLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if len(c.Code.DiagramLanguages) > MaxDiagramLangs {
		return fmt.Errorf("%w: code.diagramLanguages (%d entries, max %d)",
			ErrFieldTooLong, len(c.Code.DiagramLanguages), MaxDiagramLangs)
	}
	for i, lang := range c.Code.DiagramLanguages {
		if err := validateFieldLength(fmt.Sprintf("code.diagramLanguages[%d]", i), lang, MaxLanguageLength); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.Output.Format) {
	case "", FormatHTML, FormatJSON:
	default:
		return fmt.Errorf("%w: output.format %q (must be html or json)", ErrInvalidValue, c.Output.Format)
	}

	if c.Math.Engine != "" && !slices.Contains(formula.Engines(), strings.ToLower(c.Math.Engine)) {
		return fmt.Errorf("%w: math.engine %q (available: %s)",
			ErrInvalidValue, c.Math.Engine, strings.Join(formula.Engines(), ", "))
	}
	if _, err := formula.ParsePolicy(c.Math.Policy); err != nil {
		return fmt.Errorf("%w: math.policy %q (must be soft or strict)", ErrInvalidValue, c.Math.Policy)
	}
	if c.Code.Style != "" && !slices.Contains(highlight.Styles(), strings.ToLower(c.Code.Style)) {
		return fmt.Errorf("%w: code.style %q", ErrInvalidValue, c.Code.Style)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Format: FormatHTML},
		Math:   MathConfig{Engine: formula.EngineTreeBlood, Policy: formula.PolicySoft.String()},
		Code: CodeConfig{
			Style:            highlight.DefaultStyle,
			DefaultLanguage:  highlight.DefaultLanguage,
			DiagramLanguages: []string{highlight.DefaultDiagram},
		},
		HTML: HTMLConfig{Sanitize: true, Lang: "en"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values absent from the file keep their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the candidate files for a config name, in lookup order:
// ./name.yaml, ./name.yml, then the same names under the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-mdslide", name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
