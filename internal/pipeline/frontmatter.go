package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-mdslide/internal/yamlutil"
)

// ErrFrontmatter indicates a frontmatter block that is not valid YAML.
var ErrFrontmatter = errors.New("invalid frontmatter")

const frontmatterDelim = "---"

// SplitFrontmatter separates a leading YAML block delimited by "---" lines
// from the markdown body. Without a closed block the content is returned as
// the body with a nil map. Line endings must already be normalized.
func SplitFrontmatter(content string) (map[string]any, string, error) {
	rest, ok := strings.CutPrefix(content, frontmatterDelim+"\n")
	if !ok {
		return nil, content, nil
	}

	var block, body string
	switch {
	case strings.HasPrefix(rest, frontmatterDelim+"\n"):
		body = rest[len(frontmatterDelim)+1:]
	case rest == frontmatterDelim:
	default:
		idx := strings.Index(rest, "\n"+frontmatterDelim+"\n")
		if idx < 0 {
			if !strings.HasSuffix(rest, "\n"+frontmatterDelim) {
				return nil, content, nil
			}
			idx = len(rest) - len(frontmatterDelim) - 1
			block = rest[:idx]
		} else {
			block = rest[:idx]
			body = rest[idx+len(frontmatterDelim)+2:]
		}
	}

	meta := map[string]any{}
	if strings.TrimSpace(block) == "" {
		return meta, body, nil
	}
	if err := yamlutil.Unmarshal([]byte(block), &meta); err != nil {
		return nil, content, fmt.Errorf("%w: %v", ErrFrontmatter, err)
	}
	return meta, body, nil
}

// FrontmatterString returns meta[key] when it is a non-empty string.
func FrontmatterString(meta map[string]any, key string) string {
	s, _ := meta[key].(string)
	return s
}
