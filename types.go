package gfm2html

import "time"

// Input contains conversion parameters.
type Input struct {
	// Markdown is the raw source. Nil means no markdown was supplied, which
	// is an error; a pointer to "" converts to empty HTML.
	Markdown *string
}

// NewInput returns an Input carrying markdown.
func NewInput(markdown string) Input {
	return Input{Markdown: &markdown}
}

// Result contains the output of a successful conversion.
type Result struct {
	// HTML is the sanitized HTML fragment.
	HTML string
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout time.Duration
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout bounds a single conversion.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("gfm2html: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}
