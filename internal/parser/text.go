package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docsum/internal/doctree"
)

// TextParser handles plain text files. The whole file is one page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	tree := &doctree.DocTree{Title: baseTitle(filename, ".txt")}
	if text := joinParagraphs(string(src)); text != "" {
		tree.Children = []*doctree.DocNode{{Text: text, Page: 1}}
	}
	return tree, nil
}

// joinParagraphs collapses each run of blank lines into a single paragraph
// break and drops blank lines at either end. Line content is kept as is.
func joinParagraphs(s string) string {
	var paragraphs, lines []string
	closeParagraph := func() {
		if len(lines) > 0 {
			paragraphs = append(paragraphs, strings.Join(lines, "\n"))
			lines = lines[:0]
		}
	}
	for line := range strings.Lines(s) {
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			closeParagraph()
			continue
		}
		lines = append(lines, line)
	}
	closeParagraph()
	return strings.Join(paragraphs, "\n\n")
}
