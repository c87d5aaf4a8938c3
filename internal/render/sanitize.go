package render

import "github.com/microcosm-cc/bluemonday"

// newSanitizer returns the policy applied to raw HTML nodes. It extends the
// UGC policy with the class attribute so styled spans and diagrams survive.
func newSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	return p
}
