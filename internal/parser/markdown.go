package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/docsum/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	b := newSectionBuilder()
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			b.heading(h.Level, string(h.Text(src)))
			continue
		}
		b.block(markdownText(n, src))
	}

	return &doctree.DocTree{
		Title:    baseTitle(filename, ".md", ".markdown"),
		Children: b.finish(),
	}, nil
}

// markdownText gets the text content of a goldmark AST node.
func markdownText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	// Leaf blocks (code, HTML) carry raw lines; everything else has inline children.
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		// Nested inlines and list items.
		if s := markdownText(c, src); s != "" {
			if buf.Len() > 0 && c.Type() == ast.TypeBlock {
				buf.WriteByte('\n')
			}
			buf.WriteString(s)
		}
	}
	return strings.TrimSpace(buf.String())
}
