package doctree

import "strings"

// DocTree is the root of a parsed document.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Source   string     // Path the document was read from
	Children []*DocNode // Pages for PDFs, top-level sections otherwise
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Text     string     // Text content of this node (may be empty for container nodes)
	Page     int        // Source page (0 if N/A)
	Children []*DocNode // Subsections
}

// Text returns the text of every node in document order, joined by a
// newline. Section headings (titled nodes without a page) precede their
// text; page titles are not emitted. Empty nodes contribute nothing.
func (t *DocTree) Text() string {
	var parts []string
	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			if n.Page == 0 && n.Title != "" {
				parts = append(parts, n.Title)
			}
			if n.Text != "" {
				parts = append(parts, n.Text)
			}
			walk(n.Children)
		}
	}
	walk(t.Children)
	return strings.Join(parts, "\n")
}

// PageCount returns the highest page number recorded on any node.
func (t *DocTree) PageCount() int {
	max := 0
	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			if n.Page > max {
				max = n.Page
			}
			walk(n.Children)
		}
	}
	walk(t.Children)
	return max
}

// Chunk is a contiguous slice of text fed independently to the model.
type Chunk struct {
	Text  string // Chunk text content
	Index int    // Sequence number within the run
	Start int    // Rune offset of the first character
	End   int    // Rune offset one past the last character
}
