package pipeline

import "strings"

// Emoji maps a colon-delimited shortcode to the glyph it renders as.
type Emoji struct {
	Shortcode string
	Glyph     string
}

// emojiTable is applied in order. No glyph contains a colon, so a
// replacement can never form another shortcode.
var emojiTable = []Emoji{
	{":rocket:", "🚀"},
	{":fire:", "🔥"},
	{":star:", "⭐"},
	{":heart:", "❤️"},
	{":+1:", "👍"},
	{":-1:", "👎"},
	{":smile:", "😄"},
	{":tada:", "🎉"},
	{":thinking:", "🤔"},
	{":eyes:", "👀"},
	{":100:", "💯"},
	{":white_check_mark:", "✅"},
	{":x:", "❌"},
	{":warning:", "⚠️"},
	{":bulb:", "💡"},
	{":book:", "📚"},
	{":pencil:", "✏️"},
	{":memo:", "📝"},
	{":computer:", "💻"},
	{":package:", "📦"},
}

// EmojiTable returns a copy of the shortcode table in substitution order.
func EmojiTable() []Emoji {
	table := make([]Emoji, len(emojiTable))
	copy(table, emojiTable)
	return table
}

// replaceEmoji substitutes every shortcode literally, one table entry at a time.
func replaceEmoji(content string) string {
	// Every shortcode starts with a colon.
	if !strings.Contains(content, ":") {
		return content
	}
	for _, e := range emojiTable {
		content = strings.ReplaceAll(content, e.Shortcode, e.Glyph)
	}
	return content
}
