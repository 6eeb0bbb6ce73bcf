// Package render lays text out into single-font PDF documents.
package render

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/goregular"
)

// ErrFontNotFound is returned when a configured font file does not exist.
var ErrFontNotFound = errors.New("font file not found")

const fontFamily = "Body"

// Options controls page layout.
type Options struct {
	FontPath     string  // TTF to embed; empty selects the built-in Go Regular.
	FontSize     float64 // Points.
	LineHeight   float64 // Millimetres per wrapped line.
	BottomMargin float64 // Millimetres reserved before an automatic page break.
}

func DefaultOptions() Options {
	return Options{FontSize: 12, LineHeight: 10, BottomMargin: 15}
}

// Renderer writes A4 documents using one embedded UTF-8 font.
type Renderer struct {
	opts Options
	font []byte
	log  *slog.Logger
}

// New loads the font up front so a bad path fails before any stage runs.
func New(opts Options, log *slog.Logger) (*Renderer, error) {
	if log == nil {
		log = slog.Default()
	}
	def := DefaultOptions()
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}
	if opts.LineHeight <= 0 {
		opts.LineHeight = def.LineHeight
	}
	if opts.BottomMargin <= 0 {
		opts.BottomMargin = def.BottomMargin
	}

	font := goregular.TTF
	if opts.FontPath != "" {
		data, err := os.ReadFile(opts.FontPath)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFontNotFound, opts.FontPath)
		}
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		font = data
	}
	return &Renderer{opts: opts, font: font, log: log}, nil
}

func (r *Renderer) newDocument(title string) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, r.opts.BottomMargin)
	doc.AddUTF8FontFromBytes(fontFamily, "", r.font)
	doc.SetTitle(title, true)
	doc.SetCreator("docsum", true)
	return doc
}

// RenderSummary writes text as one wrapped block, breaking pages as needed.
func (r *Renderer) RenderSummary(path, title, text string) error {
	doc := r.newDocument(title)
	doc.AddPage()
	doc.SetFont(fontFamily, "", r.opts.FontSize)
	doc.MultiCell(0, r.opts.LineHeight, text, "", "", false)

	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write summary pdf: %w", err)
	}
	r.log.Info("summary PDF written", "path", path, "pages", doc.PageCount())
	return nil
}

// TitlePage describes the cover placed before the summary.
type TitlePage struct {
	Title     string
	Subtitle  string
	Sources   []string
	Generated time.Time
}

// RenderTitlePage writes a one-page cover document.
func (r *Renderer) RenderTitlePage(path string, tp TitlePage) error {
	doc := r.newDocument(tp.Title)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()
	width, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	inner := width - left - right

	doc.SetY(80)
	doc.SetFont(fontFamily, "", r.opts.FontSize*2.5)
	doc.MultiCell(inner, r.opts.LineHeight*1.6, tp.Title, "", "C", false)

	if tp.Subtitle != "" {
		doc.Ln(4)
		doc.SetFont(fontFamily, "", r.opts.FontSize*1.4)
		doc.MultiCell(inner, r.opts.LineHeight, tp.Subtitle, "", "C", false)
	}

	doc.SetFont(fontFamily, "", r.opts.FontSize*0.9)
	if len(tp.Sources) > 0 {
		doc.Ln(16)
		doc.MultiCell(inner, r.opts.LineHeight*0.7, "Sources:\n"+strings.Join(tp.Sources, "\n"), "", "C", false)
	}
	if !tp.Generated.IsZero() {
		doc.Ln(8)
		doc.CellFormat(inner, r.opts.LineHeight, "Generated "+tp.Generated.Format("2 January 2006"), "", 1, "C", false, 0, "")
	}

	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write title page: %w", err)
	}
	r.log.Info("title page written", "path", path)
	return nil
}
