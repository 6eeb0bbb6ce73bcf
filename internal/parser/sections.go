package parser

import (
	"strings"

	"github.com/dgallion1/docsum/internal/doctree"
)

// sectionBuilder assembles a heading tree from a flat stream of headings
// and text blocks, as produced by Markdown, HTML and DOCX walkers.
type sectionBuilder struct {
	root  *doctree.DocNode
	stack []sectionLevel
	text  strings.Builder
}

type sectionLevel struct {
	node  *doctree.DocNode
	level int
}

func newSectionBuilder() *sectionBuilder {
	root := &doctree.DocNode{}
	return &sectionBuilder{
		root:  root,
		stack: []sectionLevel{{node: root, level: 0}},
	}
}

// heading opens a section at level (1 = top) under the nearest shallower one.
func (b *sectionBuilder) heading(level int, title string) {
	b.flush()
	node := &doctree.DocNode{Title: title}
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, node)
	b.stack = append(b.stack, sectionLevel{node: node, level: level})
}

// block appends a paragraph-like text block to the current section.
func (b *sectionBuilder) block(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if b.text.Len() > 0 {
		b.text.WriteString("\n\n")
	}
	b.text.WriteString(text)
}

func (b *sectionBuilder) flush() {
	t := strings.TrimSpace(b.text.String())
	b.text.Reset()
	if t == "" {
		return
	}
	top := b.stack[len(b.stack)-1].node
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
}

// finish returns the top-level sections. Text before the first heading
// becomes a leading untitled node.
func (b *sectionBuilder) finish() []*doctree.DocNode {
	b.flush()
	nodes := b.root.Children
	if b.root.Text != "" {
		nodes = append([]*doctree.DocNode{{Text: b.root.Text}}, nodes...)
	}
	return nodes
}
