package pipeline

// Notes:
// - Tests use VerifyAllowed as the structural oracle: if it passes, no tag or
//   attribute outside the allow-list survived. Exact bluemonday formatting of
//   kept attributes (e.g. disabled="") is not asserted.

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestAllowListSanitizer_Sanitize - Stripping behavior
// ---------------------------------------------------------------------------

func TestAllowListSanitizer_Sanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:  "empty input",
			input: "",
		},
		{
			name:         "script removed with content",
			input:        "<p>hi</p><script>alert(1)</script>",
			wantContains: []string{"<p>hi</p>"},
			wantExcludes: []string{"script", "alert"},
		},
		{
			name:         "style element removed with content",
			input:        "<style>body{}</style><p>x</p>",
			wantContains: []string{"<p>x</p>"},
			wantExcludes: []string{"style", "body{}"},
		},
		{
			name:         "event handler dropped",
			input:        `<p onclick="steal()">hi</p>`,
			wantContains: []string{"<p>hi</p>"},
			wantExcludes: []string{"onclick", "steal"},
		},
		{
			name:         "javascript URL dropped",
			input:        `<a href="javascript:alert(1)">x</a>`,
			wantContains: []string{"x"},
			wantExcludes: []string{"javascript"},
		},
		{
			name:         "style attribute dropped",
			input:        `<p style="color:red">x</p>`,
			wantContains: []string{"<p>x</p>"},
			wantExcludes: []string{"color"},
		},
		{
			name:         "disallowed tag stripped content kept",
			input:        "<section><p>keep</p></section>",
			wantContains: []string{"<p>keep</p>"},
			wantExcludes: []string{"section"},
		},
		{
			name:         "abbr stripped title dropped",
			input:        `<p><abbr title="Hyper Text">HTML</abbr></p>`,
			wantContains: []string{"<p>HTML</p>"},
			wantExcludes: []string{"abbr", "Hyper"},
		},
		{
			name:         "iframe removed",
			input:        `<iframe src="https://evil.example"></iframe><p>ok</p>`,
			wantContains: []string{"<p>ok</p>"},
			wantExcludes: []string{"iframe", "evil"},
		},
		{
			name:  "link attributes kept",
			input: `<a href="https://example.com" title="t" target="_blank" rel="noopener">x</a>`,
			wantContains: []string{
				`href="https://example.com"`, `title="t"`, `target="_blank"`, `rel="noopener"`,
			},
		},
		{
			name:         "relative and mailto links kept",
			input:        `<a href="#top">a</a><a href="mailto:me@example.com">b</a>`,
			wantContains: []string{`href="#top"`, `href="mailto:me@example.com"`},
		},
		{
			name:         "image attributes kept handler dropped",
			input:        `<img src="https://example.com/a.png" alt="A" title="T" onerror="x()">`,
			wantContains: []string{`src="https://example.com/a.png"`, `alt="A"`, `title="T"`},
			wantExcludes: []string{"onerror"},
		},
		{
			name:         "checkbox attributes kept",
			input:        `<input type="checkbox" disabled checked name="x">`,
			wantContains: []string{`type="checkbox"`, "disabled", "checked"},
			wantExcludes: []string{"name="},
		},
		{
			name:         "global class and id kept",
			input:        `<h1 id="top" class="title">T</h1><span class="k">v</span>`,
			wantContains: []string{`id="top"`, `class="title"`, `<span class="k">v</span>`},
		},
		{
			name:         "code classes kept",
			input:        `<div class="highlight"><pre class="chroma" tabindex="0"><code class="language-go">x</code></pre></div>`,
			wantContains: []string{`<div class="highlight">`, `class="chroma"`, `class="language-go"`},
			wantExcludes: []string{"tabindex"},
		},
		{
			name:         "definition list tags stripped",
			input:        "<dl><dt>Term</dt><dd>Def</dd></dl>",
			wantContains: []string{"Term", "Def"},
			wantExcludes: []string{"<dl>", "<dt>", "<dd>"},
		},
		{
			name:         "del and s kept",
			input:        "<del>a</del><s>b</s>",
			wantContains: []string{"<del>a</del>", "<s>b</s>"},
		},
	}

	s := NewAllowListSanitizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := s.Sanitize(tt.input)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize(%q) missing %q\ngot: %s", tt.input, want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("Sanitize(%q) should not contain %q\ngot: %s", tt.input, exclude, got)
				}
			}
			if err := s.VerifyAllowed(got); err != nil {
				t.Errorf("VerifyAllowed(Sanitize(%q)) = %v", tt.input, err)
			}
		})
	}
}

func TestAllowListSanitizer_HostileInputsNeverEscape(t *testing.T) {
	t.Parallel()

	hostile := []string{
		`<script src="https://evil.example/x.js"></script>`,
		`<img src=x onerror=alert(1)>`,
		`<svg onload=alert(1)><circle/></svg>`,
		`<a href="JaVaScRiPt:alert(1)">x</a>`,
		`<a href="  javascript:alert(1)">x</a>`,
		`<a href="data:text/html;base64,PHNjcmlwdD4=">x</a>`,
		`<object data="x"></object><embed src="x">`,
		`<form action="https://evil.example"><button>go</button></form>`,
		`<p><b onmouseover="x()">bold</b></p>`,
		`<meta http-equiv="refresh" content="0;url=https://evil.example">`,
		`<<script>script>alert(1)<</script>/script>`,
		`<div style="background:url(javascript:alert(1))" class="ok">x</div>`,
	}

	s := NewAllowListSanitizer()
	for _, input := range hostile {
		got := s.Sanitize(input)
		if err := s.VerifyAllowed(got); err != nil {
			t.Errorf("Sanitize(%q) = %q escaped allow-list: %v", input, got, err)
		}
		lower := strings.ToLower(got)
		if strings.Contains(lower, "<script") || strings.Contains(lower, "javascript:") || strings.Contains(lower, " on") {
			t.Errorf("Sanitize(%q) = %q contains executable markup", input, got)
		}
	}
}

// ---------------------------------------------------------------------------
// TestAllowListSanitizer_VerifyAllowed - Structural check
// ---------------------------------------------------------------------------

func TestAllowListSanitizer_VerifyAllowed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"text only", "plain text", false},
		{"allowed markup", `<p class="x"><a href="https://example.com">l</a></p>`, false},
		{"relative URL", `<img src="img/a.png" alt="a">`, false},
		{"colon in path", `<a href="/wiki/Talk:Go">t</a>`, false},
		{"script tag", "<script>x</script>", true},
		{"closing disallowed tag", "</section>", true},
		{"event handler", `<p onclick="x()">y</p>`, true},
		{"style attribute", `<p style="x">y</p>`, true},
		{"attribute on wrong tag", `<p href="https://example.com">y</p>`, true},
		{"javascript href", `<a href="javascript:x()">y</a>`, true},
		{"data src", `<img src="data:image/png;base64,AAAA">`, true},
	}

	s := NewAllowListSanitizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := s.VerifyAllowed(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrDisallowedMarkup) {
					t.Errorf("VerifyAllowed(%q) = %v, want ErrDisallowedMarkup", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Errorf("VerifyAllowed(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

func TestDefaultAllowList_ReturnsCopy(t *testing.T) {
	t.Parallel()

	list := DefaultAllowList()
	list.Tags = append(list.Tags, "script")
	list.Attributes[GlobalAttrs] = append(list.Attributes[GlobalAttrs], "onclick")

	fresh := DefaultAllowList()
	if fresh.allowsTag("script") {
		t.Error("mutating a copy added script to the allow-list")
	}
	if fresh.allowsAttr("p", "onclick") {
		t.Error("mutating a copy added onclick to the allow-list")
	}
	if len(fresh.Tags) != 30 {
		t.Errorf("len(Tags) = %d, want 30", len(fresh.Tags))
	}
}
