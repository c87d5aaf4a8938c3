// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config with a path, or the user config location that was searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), "go-mdslide/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for deck style not found errors.
func ForStyleNotFound(available []string) string {
	return forAvailable(available)
}

// ForCodeStyle returns hints for unknown syntax highlighting styles.
func ForCodeStyle(available []string) string {
	if len(available) == 0 {
		return ""
	}
	const shown = 8
	if len(available) > shown {
		return format("try one of: " + strings.Join(available[:shown], ", ") + ", ...")
	}
	return format("try one of: " + strings.Join(available, ", "))
}

// ForMathEngine returns hints for unknown math engines.
func ForMathEngine(available []string) string {
	return forAvailable(available)
}

// ForUnsupportedInput returns hints when an input file has an extension the
// converter does not read.
func ForUnsupportedInput() string {
	return format("accepted inputs: .md, .markdown, or a .json mdast document")
}

func forAvailable(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
