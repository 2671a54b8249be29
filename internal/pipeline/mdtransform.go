package pipeline

import (
	"context"
	"regexp"
)

// Checkbox markup emitted for task-list items. The input is disabled so
// rendered lists are read-only.
const (
	checkboxUnchecked = `<input type="checkbox" disabled>`
	checkboxChecked   = `<input type="checkbox" disabled checked>`
)

// Precompiled regex patterns for performance.
var (
	// Task-list marker: "- [ ]", "- [x]" or "- [X]". Any other character
	// inside the brackets is deliberately not matched.
	taskListPattern = regexp.MustCompile(`- \[([ xX])\]`)

	// Strikethrough syntax ~~text~~, non-greedy and confined to one line.
	strikethroughPattern = regexp.MustCompile(`~~(.+?)~~`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// GFMPreprocessor rewrites GitHub-flavored syntax that the engine does not
// handle itself into inline HTML before conversion.
type GFMPreprocessor struct{}

// PreprocessMarkdown applies all rewrites in order: task lists, then
// strikethrough, then emoji. Text without any pattern is returned unchanged.
func (p *GFMPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	// Check for cancellation before processing
	if ctx.Err() != nil {
		return content
	}

	content = convertTaskLists(content)
	content = convertStrikethrough(content)
	content = replaceEmoji(content)
	return content
}

// convertTaskLists replaces task-list markers with disabled checkboxes.
func convertTaskLists(content string) string {
	return taskListPattern.ReplaceAllStringFunc(content, func(match string) string {
		// match is "- [c]"; the state character sits at index 3.
		if match[3] == ' ' {
			return "- " + checkboxUnchecked
		}
		return "- " + checkboxChecked
	})
}

// convertStrikethrough wraps ~~text~~ in <del> so the engine passes it
// through as inline HTML.
func convertStrikethrough(content string) string {
	return strikethroughPattern.ReplaceAllString(content, "<del>$1</del>")
}
