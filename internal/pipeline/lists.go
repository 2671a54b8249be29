package pipeline

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// MixedBulletLists keeps a bullet list together when its marker changes
// between '-', '*' and '+':
//
//	- one
//	* two
//
// renders as a single <ul>. Switching between ordered and bullet items
// still starts a new list.
var MixedBulletLists goldmark.Extender = &mixedBulletListsExtension{}

type mixedBulletListsExtension struct{}

func (e *mixedBulletListsExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithASTTransformers(util.Prioritized(&bulletListMerger{}, 500)),
	)
}

type bulletListMerger struct{}

// Transform merges adjacent bullet lists at every nesting level.
func (t *bulletListMerger) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			mergeBulletLists(n)
		}
		return ast.WalkContinue, nil
	})
}

// mergeBulletLists folds each bullet list directly followed by another
// bullet list into the first one. The merged list is tight only when both
// halves were.
func mergeBulletLists(parent ast.Node) {
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		list, ok := c.(*ast.List)
		if !ok || list.IsOrdered() {
			continue
		}
		for {
			next, ok := list.NextSibling().(*ast.List)
			if !ok || next.IsOrdered() {
				break
			}
			for item := next.FirstChild(); item != nil; {
				following := item.NextSibling()
				list.AppendChild(list, item)
				item = following
			}
			list.IsTight = list.IsTight && next.IsTight
			parent.RemoveChild(parent, next)
		}
	}
}
