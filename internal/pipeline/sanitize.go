package pipeline

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// ErrDisallowedMarkup indicates sanitized output still contains a tag,
// attribute or URL outside the allow-list.
var ErrDisallowedMarkup = errors.New("markup outside allow-list")

// GlobalAttrs is the AllowList.Attributes key for attributes allowed on every tag.
const GlobalAttrs = "*"

// AllowList enumerates the tags and attributes that may appear in safe HTML.
type AllowList struct {
	Tags       []string
	Attributes map[string][]string
}

var defaultAllowList = AllowList{
	Tags: []string{
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "strong", "em", "u", "s", "code", "pre",
		"ul", "ol", "li", "blockquote", "a", "img",
		"table", "thead", "tbody", "tr", "th", "td",
		"div", "span", "input", "del",
	},
	Attributes: map[string][]string{
		GlobalAttrs: {"class", "id"},
		"a":         {"href", "title", "target", "rel"},
		"img":       {"src", "alt", "title"},
		"input":     {"type", "disabled", "checked"},
		"code":      {"class"},
		"pre":       {"class"},
		"div":       {"class"},
	},
}

// allowedURLSchemes are the absolute URL schemes kept in href and src.
var allowedURLSchemes = []string{"http", "https", "mailto"}

// DefaultAllowList returns a copy of the fixed allow-list.
func DefaultAllowList() AllowList {
	attrs := make(map[string][]string, len(defaultAllowList.Attributes))
	for tag, names := range defaultAllowList.Attributes {
		attrs[tag] = slices.Clone(names)
	}
	return AllowList{
		Tags:       slices.Clone(defaultAllowList.Tags),
		Attributes: attrs,
	}
}

// allowsTag reports whether tag is listed.
func (l AllowList) allowsTag(tag string) bool {
	return slices.Contains(l.Tags, tag)
}

// allowsAttr reports whether attr is allowed on tag, directly or globally.
func (l AllowList) allowsAttr(tag, attr string) bool {
	return slices.Contains(l.Attributes[tag], attr) || slices.Contains(l.Attributes[GlobalAttrs], attr)
}

// HTMLSanitizer defines the contract for HTML sanitization.
type HTMLSanitizer interface {
	Sanitize(rawHTML string) string
	VerifyAllowed(safeHTML string) error
}

// AllowListSanitizer strips everything outside the fixed allow-list.
// Disallowed tags are removed and their text content kept, except for
// script and style whose content is dropped. It is safe for concurrent use.
type AllowListSanitizer struct {
	allow  AllowList
	policy *bluemonday.Policy
}

// NewAllowListSanitizer builds the bluemonday policy for the fixed allow-list.
func NewAllowListSanitizer() *AllowListSanitizer {
	allow := DefaultAllowList()
	return &AllowListSanitizer{allow: allow, policy: newPolicy(allow)}
}

func newPolicy(allow AllowList) *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	// URLs must parse and be relative or use a known scheme; this is what
	// rejects javascript: and data: in href/src.
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes(allowedURLSchemes...)

	p.AllowElements(allow.Tags...)
	for tag, attrs := range allow.Attributes {
		if tag == GlobalAttrs {
			p.AllowAttrs(attrs...).Globally()
			continue
		}
		p.AllowAttrs(attrs...).OnElements(tag)
	}
	return p
}

// Sanitize returns rawHTML restricted to the allow-list.
func (s *AllowListSanitizer) Sanitize(rawHTML string) string {
	if rawHTML == "" {
		return ""
	}
	return s.policy.Sanitize(rawHTML)
}

// VerifyAllowed tokenizes safeHTML and fails on the first tag, attribute or
// URL scheme that the allow-list does not permit.
func (s *AllowListSanitizer) VerifyAllowed(safeHTML string) error {
	z := html.NewTokenizer(strings.NewReader(safeHTML))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return fmt.Errorf("%w: %v", ErrDisallowedMarkup, err)
			}
			return nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if !s.allow.allowsTag(tok.Data) {
				return fmt.Errorf("%w: tag <%s>", ErrDisallowedMarkup, tok.Data)
			}
			for _, a := range tok.Attr {
				if !s.allow.allowsAttr(tok.Data, a.Key) {
					return fmt.Errorf("%w: attribute %s on <%s>", ErrDisallowedMarkup, a.Key, tok.Data)
				}
				if (a.Key == "href" || a.Key == "src") && !allowedURL(a.Val) {
					return fmt.Errorf("%w: %s=%q on <%s>", ErrDisallowedMarkup, a.Key, a.Val, tok.Data)
				}
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); !s.allow.allowsTag(string(name)) {
				return fmt.Errorf("%w: tag </%s>", ErrDisallowedMarkup, name)
			}
		}
	}
}

// allowedURL accepts relative URLs and absolute URLs with a known scheme.
func allowedURL(raw string) bool {
	u := strings.ToLower(strings.TrimSpace(raw))
	colon := strings.IndexByte(u, ':')
	if colon < 0 {
		return true
	}
	// A colon after the first path, query or fragment delimiter is not a scheme.
	if i := strings.IndexAny(u, "/?#"); i >= 0 && i < colon {
		return true
	}
	return slices.Contains(allowedURLSchemes, u[:colon])
}
