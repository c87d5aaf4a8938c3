//go:build bench

package mdslide

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// generateDeck returns markdown with n top-level sections, each holding a
// nested section with a list, a code block and a formula.
func generateDeck(n int) string {
	var sb strings.Builder
	for i := range n {
		fmt.Fprintf(&sb, "# Section %d\n\nIntro paragraph with $x_%d^2$.\n\n", i, i)
		fmt.Fprintf(&sb, "## Details %d\n\n- first\n- second\n  - nested\n\n", i)
		sb.WriteString("```go\nfunc main() { fmt.Println(\"hi\") }\n```\n\n")
	}
	return sb.String()
}

// BenchmarkConvert benchmarks parsing plus slide tree building.
func BenchmarkConvert(b *testing.B) {
	conv, err := NewConverter()
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	for _, size := range []int{1, 10, 50, 200} {
		input := Input{Markdown: generateDeck(size)}
		b.Run(fmt.Sprintf("sections_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := conv.Convert(ctx, input); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkRenderPage benchmarks standalone page assembly from a built tree.
func BenchmarkRenderPage(b *testing.B) {
	conv, err := NewConverter()
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	for _, size := range []int{10, 50} {
		res, err := conv.Convert(ctx, Input{Markdown: generateDeck(size)})
		if err != nil {
			b.Fatal(err)
		}
		b.Run(fmt.Sprintf("sections_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := conv.RenderPage(ctx, res.Tree, PageOptions{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
