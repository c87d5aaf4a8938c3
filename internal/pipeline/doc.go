// Package pipeline holds the host-side stages around slide building.
//
// Before building:
//   - Markdown preprocessing (line endings, blank lines)
//   - Frontmatter splitting
//   - Markdown parsing into mdast via goldmark
//
// After rendering, for standalone presentation pages:
//   - Relative resource paths rewritten to file:// URLs
//   - Stylesheet injection
package pipeline
