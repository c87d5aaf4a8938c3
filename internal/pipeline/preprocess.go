package pipeline

import (
	"context"
	"regexp"
	"strings"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor normalizes markdown before parsing.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown normalizes line endings and limits runs of blank lines
// to two. Fenced code blocks are copied verbatim.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	content = crlfOrCR.ReplaceAllString(content, "\n")
	return collapseBlankLines(content)
}

// collapseBlankLines applies the blank line limit to the text between fenced
// code blocks. A fence left open runs to the end of the document.
func collapseBlankLines(content string) string {
	var sb strings.Builder
	sb.Grow(len(content))

	outsideStart, fenceStart := 0, 0
	fence := ""
	for pos := 0; pos < len(content); {
		end := strings.IndexByte(content[pos:], '\n')
		if end < 0 {
			end = len(content)
		} else {
			end += pos
		}
		line := content[pos:end]

		if fence == "" {
			if f := openingFence(line); f != "" {
				sb.WriteString(multipleBlankLines.ReplaceAllString(content[outsideStart:pos], "\n\n\n"))
				fence, fenceStart = f, pos
			}
		} else if closesFence(line, fence) {
			sb.WriteString(content[fenceStart:end])
			fence, outsideStart = "", end
		}
		pos = end + 1
	}

	if fence != "" {
		sb.WriteString(content[fenceStart:])
	} else {
		sb.WriteString(multipleBlankLines.ReplaceAllString(content[outsideStart:], "\n\n\n"))
	}
	return sb.String()
}

// openingFence returns the backtick or tilde run opening a fenced code block,
// or "" when line does not open one.
func openingFence(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" || (trimmed[0] != '`' && trimmed[0] != '~') {
		return ""
	}
	n := fenceRun(trimmed)
	if n < 3 {
		return ""
	}
	if trimmed[0] == '`' && strings.ContainsRune(trimmed[n:], '`') {
		return ""
	}
	return trimmed[:n]
}

func closesFence(line, fence string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" || trimmed[0] != fence[0] {
		return false
	}
	n := fenceRun(trimmed)
	return n >= len(fence) && strings.TrimRight(trimmed[n:], " \t") == ""
}

func fenceRun(s string) int {
	n := 0
	for n < len(s) && s[n] == s[0] {
		n++
	}
	return n
}
