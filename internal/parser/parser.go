package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docsum/internal/doctree"
)

// ErrUnsupportedFormat is returned for file extensions no parser handles.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Parser converts raw document bytes into a DocTree.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.DocTree, error)
}

// FileParser is implemented by parsers that read directly from disk
// instead of buffering the stream first.
type FileParser interface {
	ParseFile(path string) (*doctree.DocTree, error)
}

// Options tunes parser selection.
type Options struct {
	// PDFFallbackPdftotext retries failed PDFs with the pdftotext binary.
	PDFFallbackPdftotext bool
}

// SupportedExtensions lists file extensions this tool can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ParseFile opens path, picks a parser by extension and returns the
// parsed tree with Source set.
func ParseFile(path string, opts Options) (*doctree.DocTree, error) {
	p, err := ForFile(path, opts)
	if err != nil {
		return nil, err
	}

	var tree *doctree.DocTree
	if fp, ok := p.(FileParser); ok {
		tree, err = fp.ParseFile(path)
	} else {
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		tree, err = p.Parse(f, filepath.Base(path))
	}
	if err != nil {
		return nil, err
	}
	tree.Source = path
	return tree, nil
}

func baseTitle(filename string, exts ...string) string {
	name := filepath.Base(filename)
	for _, ext := range exts {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
