// Package pipeline implements the Markdown-to-safe-HTML conversion pipeline.
//
// The stages run in a fixed order:
//   - Markdown preprocessing (task-list checkboxes, ~~strikethrough~~, emoji shortcodes)
//   - Markdown to HTML conversion via Goldmark (tables, definition lists,
//     attribute lists, abbreviations, highlighted fenced code, hard wraps)
//   - Allow-list sanitization via bluemonday
//
// Preprocessing is plain text rewriting and does not know about markdown
// structure: shortcodes and checkbox markers inside fenced code blocks are
// rewritten too.
//
// Goldmark runs with raw HTML enabled so that markup emitted by the
// preprocessor reaches the sanitizer. The sanitizer is therefore the only
// security boundary, and its output is checked against the allow-list a
// second time by VerifyAllowed.
package pipeline
