package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docsum/internal/doctree"
)

// csvRowsPerNode bounds how many data rows share one node.
const csvRowsPerNode = 20

// CSVParser handles CSV files. Rows are rendered as "header: value" pairs so
// the model sees labelled facts rather than bare cells.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	tree := &doctree.DocTree{Title: baseTitle(filename, ".csv")}
	if len(records) < 2 {
		return tree, nil
	}

	headers, rows := records[0], records[1:]
	for start := 0; start < len(rows); start += csvRowsPerNode {
		end := min(start+csvRowsPerNode, len(rows))

		var sb strings.Builder
		for _, row := range rows[start:end] {
			cells := make([]string, 0, len(row))
			for j, cell := range row {
				if j < len(headers) && headers[j] != "" {
					cells = append(cells, headers[j]+": "+cell)
				} else {
					cells = append(cells, cell)
				}
			}
			sb.WriteString(strings.Join(cells, ", "))
			sb.WriteString("\n")
		}

		tree.Children = append(tree.Children, &doctree.DocNode{
			Text: strings.TrimRight(sb.String(), "\n"),
		})
	}
	return tree, nil
}
