package pipeline

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Abbreviation is a goldmark extension for abbreviation definitions:
//
//	The HTML standard is maintained by the W3C.
//
//	*[HTML]: Hyper Text Markup Language
//	*[W3C]:  World Wide Web Consortium
//
// Definition lines produce no output. Whole-word occurrences of a defined
// abbreviation in text are wrapped in <abbr title="...">.
var Abbreviation goldmark.Extender = &abbreviationExtension{}

// abbrDefinitionPattern matches a definition line, trailing newline included.
var abbrDefinitionPattern = regexp.MustCompile(`^\*\[([^\]]+)\]:[ \t]*(.*?)[ \t]*\r?\n?$`)

var abbreviationsKey = parser.NewContextKey()

// KindAbbreviation is the NodeKind of inline abbreviation nodes.
var KindAbbreviation = ast.NewNodeKind("Abbreviation")

// KindAbbreviationDefinition is the NodeKind of abbreviation definition blocks.
var KindAbbreviationDefinition = ast.NewNodeKind("AbbreviationDefinition")

// AbbreviationNode is an inline occurrence of a defined abbreviation.
type AbbreviationNode struct {
	ast.BaseInline
	Title string
}

// Kind implements ast.Node.
func (n *AbbreviationNode) Kind() ast.NodeKind { return KindAbbreviation }

// Dump implements ast.Node.
func (n *AbbreviationNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Title": n.Title}, nil)
}

// AbbreviationDefinition is a consumed "*[ABBR]: title" line.
type AbbreviationDefinition struct {
	ast.BaseBlock
	Abbr  string
	Title string
}

// Kind implements ast.Node.
func (n *AbbreviationDefinition) Kind() ast.NodeKind { return KindAbbreviationDefinition }

// Dump implements ast.Node.
func (n *AbbreviationDefinition) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Abbr": n.Abbr, "Title": n.Title}, nil)
}

type abbreviationExtension struct{}

func (e *abbreviationExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		// Ahead of list items, which share the '*' trigger.
		parser.WithBlockParsers(util.Prioritized(&abbrDefinitionParser{}, 250)),
		parser.WithASTTransformers(util.Prioritized(&abbrTransformer{}, 999)),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(&abbrRenderer{}, 500)),
	)
}

// abbreviations returns the definitions collected so far for one document.
func abbreviations(pc parser.Context) map[string]string {
	if v, ok := pc.Get(abbreviationsKey).(map[string]string); ok {
		return v
	}
	defs := make(map[string]string)
	pc.Set(abbreviationsKey, defs)
	return defs
}

type abbrDefinitionParser struct{}

func (p *abbrDefinitionParser) Trigger() []byte { return []byte{'*'} }

func (p *abbrDefinitionParser) Open(_ ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	m := abbrDefinitionPattern.FindSubmatch(line)
	if m == nil {
		return nil, parser.NoChildren
	}
	abbr := strings.TrimSpace(string(m[1]))
	if abbr == "" {
		return nil, parser.NoChildren
	}
	title := string(m[2])
	abbreviations(pc)[abbr] = title
	reader.Advance(segment.Len() - 1)
	return &AbbreviationDefinition{Abbr: abbr, Title: title}, parser.NoChildren
}

func (p *abbrDefinitionParser) Continue(ast.Node, text.Reader, parser.Context) parser.State {
	return parser.Close
}

func (p *abbrDefinitionParser) Close(ast.Node, text.Reader, parser.Context) {}

func (p *abbrDefinitionParser) CanInterruptParagraph() bool { return true }

func (p *abbrDefinitionParser) CanAcceptIndentedLine() bool { return false }

type abbrTransformer struct{}

// Transform splits text nodes around defined abbreviations. Code and raw
// HTML are left alone.
func (t *abbrTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	defs, ok := pc.Get(abbreviationsKey).(map[string]string)
	if !ok || len(defs) == 0 {
		return
	}
	pattern := abbrMatcher(defs)
	source := reader.Source()

	var texts []*ast.Text
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.CodeSpan, *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			if _, isAbbr := n.Parent().(*AbbreviationNode); !isAbbr && !n.IsRaw() && n.Segment.Padding == 0 {
				texts = append(texts, n)
			}
		}
		return ast.WalkContinue, nil
	})

	for _, n := range texts {
		splitAbbreviations(n, source, pattern, defs)
	}
}

// abbrMatcher builds a whole-word alternation, longest abbreviation first.
func abbrMatcher(defs map[string]string) *regexp.Regexp {
	keys := make([]string, 0, len(defs))
	for k := range defs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for i, k := range keys {
		keys[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(keys, "|") + `)\b`)
}

func splitAbbreviations(n *ast.Text, source []byte, pattern *regexp.Regexp, defs map[string]string) {
	seg := n.Segment
	value := seg.Value(source)
	matches := pattern.FindAllIndex(value, -1)
	if len(matches) == 0 {
		return
	}

	parent := n.Parent()
	pos := 0
	for _, m := range matches {
		if m[0] > pos {
			parent.InsertBefore(parent, n, ast.NewTextSegment(text.NewSegment(seg.Start+pos, seg.Start+m[0])))
		}
		abbr := &AbbreviationNode{Title: defs[string(value[m[0]:m[1]])]}
		abbr.AppendChild(abbr, ast.NewTextSegment(text.NewSegment(seg.Start+m[0], seg.Start+m[1])))
		parent.InsertBefore(parent, n, abbr)
		pos = m[1]
	}

	// The remainder keeps the original node so its line-break flags survive.
	if pos < len(value) {
		n.Segment = text.NewSegment(seg.Start+pos, seg.Stop)
		return
	}
	if n.SoftLineBreak() || n.HardLineBreak() {
		tail := ast.NewTextSegment(text.NewSegment(seg.Stop, seg.Stop))
		tail.SetSoftLineBreak(n.SoftLineBreak())
		tail.SetHardLineBreak(n.HardLineBreak())
		parent.InsertBefore(parent, n, tail)
	}
	parent.RemoveChild(parent, n)
}

type abbrRenderer struct{}

func (r *abbrRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAbbreviation, r.renderAbbreviation)
	reg.Register(KindAbbreviationDefinition, r.renderDefinition)
}

func (r *abbrRenderer) renderAbbreviation(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</abbr>")
		return ast.WalkContinue, nil
	}
	n := node.(*AbbreviationNode)
	_, _ = w.WriteString(`<abbr title="`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.Title)))
	_, _ = w.WriteString(`">`)
	return ast.WalkContinue, nil
}

func (r *abbrRenderer) renderDefinition(util.BufWriter, []byte, ast.Node, bool) (ast.WalkStatus, error) {
	return ast.WalkSkipChildren, nil
}
