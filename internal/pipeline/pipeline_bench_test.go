//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// BenchmarkStages measures each stage on the same GFM document.
func BenchmarkStages(b *testing.B) {
	ctx := context.Background()
	pre := &GFMPreprocessor{}
	conv := NewGoldmarkConverter()
	san := NewAllowListSanitizer()

	source := generateGFMDocument(50)
	preprocessed := pre.PreprocessMarkdown(ctx, source)
	rawHTML, err := conv.ToHTML(ctx, preprocessed)
	if err != nil {
		b.Fatal(err)
	}
	safe := san.Sanitize(rawHTML)

	b.Run("preprocess", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = pre.PreprocessMarkdown(ctx, source)
		}
	})

	b.Run("goldmark", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := conv.ToHTML(ctx, preprocessed); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("sanitize", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = san.Sanitize(rawHTML)
		}
	})

	b.Run("verify", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if err := san.VerifyAllowed(safe); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkPipelineBySize measures all stages as the document grows.
func BenchmarkPipelineBySize(b *testing.B) {
	ctx := context.Background()
	pre := &GFMPreprocessor{}
	conv := NewGoldmarkConverter()
	san := NewAllowListSanitizer()

	for _, sections := range []int{1, 10, 100, 500} {
		source := generateGFMDocument(sections)
		b.Run(fmt.Sprintf("sections_%d", sections), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(source)))
			for i := 0; i < b.N; i++ {
				rawHTML, err := conv.ToHTML(ctx, pre.PreprocessMarkdown(ctx, source))
				if err != nil {
					b.Fatal(err)
				}
				_ = san.Sanitize(rawHTML)
			}
		})
	}
}

// BenchmarkPipelineParallel measures shared stages under concurrent use.
func BenchmarkPipelineParallel(b *testing.B) {
	ctx := context.Background()
	pre := &GFMPreprocessor{}
	conv := NewGoldmarkConverter()
	san := NewAllowListSanitizer()
	source := generateGFMDocument(20)

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			rawHTML, err := conv.ToHTML(ctx, pre.PreprocessMarkdown(ctx, source))
			if err != nil {
				b.Fatal(err)
			}
			_ = san.Sanitize(rawHTML)
		}
	})
}

// BenchmarkEmojiReplacement isolates the shortcode table scan.
func BenchmarkEmojiReplacement(b *testing.B) {
	inputs := map[string]string{
		"no_colons":   strings.Repeat("plain text without shortcodes ", 200),
		"dense_emoji": strings.Repeat(":rocket: :fire: :tada: :x: ", 200),
		"near_misses": strings.Repeat("time 10:30 ratio 1:2 :unknown: ", 200),
	}
	for name, content := range inputs {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = replaceEmoji(content)
			}
		})
	}
}

func generateGFMDocument(sections int) string {
	var sb strings.Builder
	sb.WriteString("# Release notes :rocket:\n\n")
	sb.WriteString("*[GFM]: GitHub Flavored Markdown\n\n")

	for i := 0; i < sections; i++ {
		fmt.Fprintf(&sb, "## Section %d\n\n", i+1)
		sb.WriteString("Written in GFM with **bold**, ~~old~~ text and `code` :tada:.\n")
		sb.WriteString("A [link](https://example.com) on a hard-wrapped line.\n\n")
		sb.WriteString("- [x] shipped\n- [ ] pending :eyes:\n- plain item\n\n")

		if i%3 == 0 {
			sb.WriteString("```go\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n```\n\n")
		}
		if i%5 == 0 {
			sb.WriteString("| A | B |\n|---|---|\n| 1 | 2 |\n\n")
			sb.WriteString("Term\n: Definition\n\n")
		}
	}
	return sb.String()
}
