// Package gfm2html converts GitHub-flavored Markdown to sanitized HTML.
//
// # Quick Start
//
// Create a converter once and share it; it is safe for concurrent use:
//
//	conv := gfm2html.NewConverter()
//
//	result, err := conv.ConvertString(ctx, "# Hello\n\n- [x] done :tada:")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.HTML)
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Markdown preprocessing (task-list checkboxes, ~~strikethrough~~, emoji shortcodes)
//  2. Markdown to HTML conversion via Goldmark (tables, fenced and highlighted
//     code, hard line breaks, attribute lists, definition lists, abbreviations)
//  3. Allow-list sanitization via bluemonday
//
// Preprocessing rewrites text before parsing, so shortcodes and checkbox
// markers inside fenced code blocks are rewritten as well.
//
// # Errors
//
// Convert returns a *ConversionError whose Kind tells callers how to report
// it. Missing input is distinct from empty input:
//
//	_, err := conv.Convert(ctx, gfm2html.Input{})      // KindMissingInput
//	res, _ := conv.Convert(ctx, gfm2html.NewInput("")) // res.HTML == ""
//
// Use errors.Is with ErrMissingInput, ErrMalformedRequest or ErrInternal to
// classify errors.
//
// # Allow-list
//
// Output only ever contains the tags h1-h6, p, br, strong, em, u, s, code,
// pre, ul, ol, li, blockquote, a, img, table, thead, tbody, tr, th, td, div,
// span, input and del. Attributes are limited to class and id on any of
// those, plus href/title/target/rel on a, src/alt/title on img and
// type/disabled/checked on input. Links and images must be relative or use
// http, https or mailto.
package gfm2html
