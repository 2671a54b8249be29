package gfm2html

import (
	"context"
	"fmt"

	"github.com/alnah/go-gfm2html/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.GFMPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.HTMLSanitizer        = (*pipeline.AllowListSanitizer)(nil)
)

// Converter orchestrates the markdown-to-safe-HTML pipeline.
// Create with NewConverter and share the instance: nothing is written after
// construction, so concurrent Convert calls need no locking.
type Converter struct {
	cfg           converterConfig
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	sanitizer     pipeline.HTMLSanitizer
}

// NewConverter creates a Converter with the fixed extension set and allow-list.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		cfg:           converterConfig{timeout: defaultTimeout},
		preprocessor:  &pipeline.GFMPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		sanitizer:     pipeline.NewAllowListSanitizer(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Convert runs preprocessing, HTML conversion and sanitization.
// Every failure is a *ConversionError; on error no HTML is returned.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = internalError(fmt.Errorf("%w: %v", ErrInternal, r))
		}
	}()

	if input.Markdown == nil {
		return nil, missingInput()
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	// Preprocess markdown
	mdContent := c.preprocessor.PreprocessMarkdown(ctx, *input.Markdown)
	if err := ctx.Err(); err != nil {
		return nil, internalError(err)
	}

	// Convert to HTML
	rawHTML, err := c.htmlConverter.ToHTML(ctx, mdContent)
	if err != nil {
		return nil, internalError(err)
	}

	// Sanitize, then confirm nothing outside the allow-list survived
	safeHTML := c.sanitizer.Sanitize(rawHTML)
	if err := c.sanitizer.VerifyAllowed(safeHTML); err != nil {
		return nil, internalError(err)
	}

	return &Result{HTML: safeHTML}, nil
}

// ConvertString converts markdown that is known to be present.
func (c *Converter) ConvertString(ctx context.Context, markdown string) (*Result, error) {
	return c.Convert(ctx, NewInput(markdown))
}
