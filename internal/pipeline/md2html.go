package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// HighlightClass is the CSS class of the block wrapping highlighted code.
const HighlightClass = "highlight"

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter converts Markdown to an HTML fragment using goldmark (pure Go).
// A single instance is safe for concurrent use.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with the fixed extension set.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,          // Pipe tables
			extension.DefinitionList, // Term\n: definition
			Abbreviation,             // *[HTML]: Hyper Text Markup Language
			MixedBulletLists,         // "- a" then "* b" stays one <ul>
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // Classes survive sanitization, inline styles do not
					chromahtml.WithLineNumbers(false),
				),
				highlighting.WithWrapperRenderer(wrapHighlightedCode),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAttribute(), // {#id .class} on headings
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // Treat newlines as <br>
			// Raw HTML must pass: preprocessing emits <input> and <del>.
			// Everything is sanitized afterwards.
			html.WithUnsafe(),
		),
	)
	return &GoldmarkConverter{md: md}
}

// wrapHighlightedCode surrounds each fenced block with <div class="highlight">.
// Blocks without a known lexer are not formatted by chroma, so the wrapper
// also emits their <pre><code> pair.
func wrapHighlightedCode(w util.BufWriter, ctx highlighting.CodeBlockContext, entering bool) {
	if entering {
		_, _ = w.WriteString(`<div class="` + HighlightClass + `">`)
		if !ctx.Highlighted() {
			_, _ = w.WriteString("<pre><code")
			if lang, ok := ctx.Language(); ok && len(lang) > 0 {
				_, _ = w.WriteString(` class="language-`)
				_, _ = w.Write(util.EscapeHTML(lang))
				_ = w.WriteByte('"')
			}
			_ = w.WriteByte('>')
		}
		return
	}
	if !ctx.Highlighted() {
		_, _ = w.WriteString("</code></pre>")
	}
	_, _ = w.WriteString("</div>\n")
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context. A panic inside goldmark or an
// extension is reported as ErrHTMLConversion instead of crashing the caller.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, r)}
			}
		}()

		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
