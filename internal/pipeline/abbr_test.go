package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestAbbreviation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "definition wraps occurrences",
			input:        "The HTML standard.\n\n*[HTML]: Hyper Text Markup Language",
			wantContains: []string{`<abbr title="Hyper Text Markup Language">HTML</abbr>`, "The ", " standard."},
			wantExcludes: []string{"*[HTML]"},
		},
		{
			name:         "definition before use",
			input:        "*[W3C]: World Wide Web Consortium\n\nAsk the W3C.",
			wantContains: []string{`<abbr title="World Wide Web Consortium">W3C</abbr>`},
		},
		{
			name:         "whole words only",
			input:        "HTMLish text.\n\n*[HTML]: Hyper Text Markup Language",
			wantContains: []string{"HTMLish"},
			wantExcludes: []string{"<abbr"},
		},
		{
			name:         "title is escaped",
			input:        "A&B\n\n*[B]: \"quoted\" <tag>",
			wantContains: []string{`title="&quot;quoted&quot; &lt;tag&gt;"`},
		},
		{
			name:         "code spans untouched",
			input:        "`HTML` and HTML\n\n*[HTML]: Hyper Text Markup Language",
			wantContains: []string{"<code>HTML</code>", `<abbr title="Hyper Text Markup Language">HTML</abbr>`},
		},
		{
			name:         "multiple occurrences in one text",
			input:        "CSS and CSS\n\n*[CSS]: Cascading Style Sheets",
			wantContains: []string{`<abbr title="Cascading Style Sheets">CSS</abbr> and <abbr title="Cascading Style Sheets">CSS</abbr>`},
		},
		{
			name:         "list items still parse",
			input:        "* one\n* two",
			wantContains: []string{"<li>one</li>", "<li>two</li>"},
			wantExcludes: []string{"<abbr"},
		},
	}

	converter := NewGoldmarkConverter()
	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := converter.ToHTML(ctx, tt.input)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("missing %q\ngot: %s", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("should not contain %q\ngot: %s", exclude, got)
				}
			}
		})
	}
}

func TestAbbrMatcher_LongestFirst(t *testing.T) {
	t.Parallel()

	re := abbrMatcher(map[string]string{"HTML": "a", "HTML5": "b"})
	if got := re.FindString("use HTML5 now"); got != "HTML5" {
		t.Errorf("FindString() = %q, want HTML5", got)
	}
}
