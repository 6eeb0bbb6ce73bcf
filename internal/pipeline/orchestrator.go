package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/docsum/internal/doctree"
	"github.com/dgallion1/docsum/internal/merge"
	"github.com/dgallion1/docsum/internal/parser"
	"github.com/dgallion1/docsum/internal/render"
	"github.com/dgallion1/docsum/internal/summarize"
)

// ErrNoText is returned when no input yielded any extractable text.
var ErrNoText = errors.New("no text extracted")

// Title page modes. Any other value is the path of an existing PDF.
const (
	TitlePageGenerate = "generate"
	TitlePageNone     = "none"
)

// Extractor reads one document into a tree.
type Extractor interface {
	Extract(path string) (*doctree.DocTree, error)
}

// Summarizer condenses the combined text of a run.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (*summarize.Result, error)
}

// Renderer writes the summary and title page documents.
type Renderer interface {
	RenderSummary(path, title, text string) error
	RenderTitlePage(path string, tp render.TitlePage) error
}

// Merger concatenates documents and returns the output page count.
type Merger interface {
	Merge(inputs []string, out string) (int, error)
}

// FileExtractor extracts with the extension-selected parser.
type FileExtractor struct {
	Options parser.Options
}

func (e FileExtractor) Extract(path string) (*doctree.DocTree, error) {
	return parser.ParseFile(path, e.Options)
}

// PDFMerger merges with pdfcpu.
type PDFMerger struct{}

func (PDFMerger) Merge(inputs []string, out string) (int, error) {
	return merge.Merge(inputs, out)
}

// Options tune a run beyond its stages.
type Options struct {
	TitlePage   string // generate (default), none, or a PDF path.
	Cleanup     bool   // Remove outputs written by a failed run.
	WriteReport bool   // Write <label>_Report.yaml.
	Model       string // Recorded in the report.
}

// Request names the inputs and where outputs go.
type Request struct {
	Inputs    []string
	Label     string
	OutputDir string
}

// Paths derives the output file locations for a label.
func Paths(dir, label string) Outputs {
	return Outputs{
		TitlePage: filepath.Join(dir, label+"_Course.pdf"),
		Summary:   filepath.Join(dir, label+"_Summary.pdf"),
		Final:     filepath.Join(dir, label+"_Full_Summary.pdf"),
		Report:    filepath.Join(dir, label+"_Report.yaml"),
	}
}

// Orchestrator runs the extract, summarize, render and merge stages in order.
type Orchestrator struct {
	extractor  Extractor
	summarizer Summarizer
	renderer   Renderer
	merger     Merger
	opts       Options
	log        *slog.Logger
	now        func() time.Time
}

func NewOrchestrator(e Extractor, s Summarizer, r Renderer, m Merger, opts Options, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	if opts.TitlePage == "" {
		opts.TitlePage = TitlePageGenerate
	}
	return &Orchestrator{
		extractor:  e,
		summarizer: s,
		renderer:   r,
		merger:     m,
		opts:       opts,
		log:        log,
		now:        time.Now,
	}
}

// Run executes one batch. The report is always returned, including on error.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Report, error) {
	start := o.now()
	rep := &Report{
		RunID:     newRunID(start),
		Label:     req.Label,
		Model:     o.opts.Model,
		StartedAt: start,
		Status:    StatusRunning,
	}
	log := o.log.With("run_id", rep.RunID, "label", req.Label)
	if req.OutputDir == "" {
		req.OutputDir = "."
	}

	if err := validateRequest(req); err != nil {
		rep.Status = StatusFailed
		rep.Error = err.Error()
		return rep, err
	}
	log.Info("starting pipeline", "inputs", len(req.Inputs), "output_dir", req.OutputDir)

	w := &run{o: o, req: req, rep: rep, log: log, paths: Paths(req.OutputDir, req.Label)}
	err := w.execute(ctx)

	rep.Elapsed = FormatElapsed(o.now().Sub(start))
	if err != nil {
		rep.Status = StatusFailed
		rep.Error = err.Error()
		if o.opts.Cleanup {
			w.cleanup()
		}
	} else {
		rep.Status = StatusOK
	}

	if o.opts.WriteReport && len(w.written) > 0 {
		rep.Outputs.Report = w.paths.Report
		if werr := WriteReport(w.paths.Report, rep); werr != nil {
			log.Error("report write failed", "error", werr)
		}
	}

	log.Info("pipeline finished", "status", rep.Status, "elapsed", rep.Elapsed)
	return rep, err
}

func validateRequest(req Request) error {
	if len(req.Inputs) == 0 {
		return errors.New("no input documents")
	}
	if strings.TrimSpace(req.Label) == "" {
		return errors.New("label is required")
	}
	if strings.ContainsAny(req.Label, `/\`) {
		return fmt.Errorf("label %q must not contain path separators", req.Label)
	}
	return nil
}

// run carries the state of one Run call.
type run struct {
	o       *Orchestrator
	req     Request
	rep     *Report
	log     *slog.Logger
	paths   Outputs
	written []string
}

func (w *run) execute(ctx context.Context) error {
	// Phase 1: Extract
	text, err := w.extract()
	if err != nil {
		return err
	}

	// Phase 2: Summarize
	summary, err := w.summarize(ctx, text)
	if err != nil {
		return err
	}

	// Phase 3: Render
	if err := w.render(summary); err != nil {
		return err
	}

	// Phase 4: Title page and merge
	mergeInputs, err := w.titlePage()
	if err != nil {
		return err
	}
	return w.merge(append(mergeInputs, w.paths.Summary))
}

func (w *run) extract() (string, error) {
	start := time.Now()
	var sb strings.Builder
	for _, path := range w.req.Inputs {
		w.log.Info("extracting text", "path", path)
		res := InputResult{Path: path, Status: StatusOK}

		tree, err := w.o.extractor.Extract(path)
		if err != nil {
			w.log.Error("extraction failed", "path", path, "error", err)
			res.Status = StatusFailed
			res.Error = err.Error()
			w.rep.Inputs = append(w.rep.Inputs, res)
			continue
		}

		text := tree.Text()
		res.Pages = tree.PageCount()
		res.Chars = len([]rune(text))
		res.ContentHash = ContentHashHex([]byte(text))
		if strings.TrimSpace(text) == "" {
			w.log.Warn("document has no extractable text", "path", path)
			res.Status = StatusEmpty
		}
		w.rep.Inputs = append(w.rep.Inputs, res)

		if text != "" {
			sb.WriteString(text)
			sb.WriteString("\n\n")
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		w.log.Error("no text extracted", "inputs", len(w.req.Inputs))
		w.rep.record(StageExtract, start, "", ErrNoText)
		return "", ErrNoText
	}
	w.rep.record(StageExtract, start, "", nil)
	return text, nil
}

func (w *run) summarize(ctx context.Context, text string) (string, error) {
	start := time.Now()
	res, err := w.o.summarizer.Summarize(ctx, text)
	if err != nil {
		w.log.Error("summarization failed", "error", err)
		w.rep.record(StageSummarize, start, "", err)
		return "", fmt.Errorf("summarize: %w", err)
	}
	w.rep.Chunks = res.Chunks
	w.rep.Refined = res.Refined
	w.rep.Latency = res.Stats
	w.rep.record(StageSummarize, start, "", nil)
	w.log.Info("summary ready", "chunks", res.Chunks, "chars", len([]rune(res.Summary)), "refined", res.Refined)
	return res.Summary, nil
}

func (w *run) render(summary string) error {
	start := time.Now()
	if err := os.MkdirAll(w.req.OutputDir, 0o755); err != nil {
		w.rep.record(StageRender, start, "", err)
		return fmt.Errorf("create output dir: %w", err)
	}

	w.written = append(w.written, w.paths.Summary)
	if err := w.o.renderer.RenderSummary(w.paths.Summary, w.req.Label+" Summary", summary); err != nil {
		w.log.Error("render failed", "path", w.paths.Summary, "error", err)
		w.rep.record(StageRender, start, w.paths.Summary, err)
		return fmt.Errorf("render summary: %w", err)
	}
	w.rep.Outputs.Summary = w.paths.Summary
	w.rep.record(StageRender, start, w.paths.Summary, nil)
	return nil
}

// titlePage returns the documents that precede the summary in the merge.
func (w *run) titlePage() ([]string, error) {
	start := time.Now()
	switch mode := w.o.opts.TitlePage; mode {
	case TitlePageNone:
		w.rep.skip(StageTitlePage, "disabled")
		return nil, nil

	case TitlePageGenerate:
		sources := make([]string, 0, len(w.rep.Inputs))
		for _, in := range w.rep.Inputs {
			if in.Status == StatusOK {
				sources = append(sources, filepath.Base(in.Path))
			}
		}
		w.written = append(w.written, w.paths.TitlePage)
		err := w.o.renderer.RenderTitlePage(w.paths.TitlePage, render.TitlePage{
			Title:     w.req.Label,
			Subtitle:  "Summary",
			Sources:   sources,
			Generated: w.rep.StartedAt,
		})
		w.rep.record(StageTitlePage, start, w.paths.TitlePage, err)
		if err != nil {
			w.log.Error("title page failed", "path", w.paths.TitlePage, "error", err)
			return nil, fmt.Errorf("render title page: %w", err)
		}
		w.rep.Outputs.TitlePage = w.paths.TitlePage
		return []string{w.paths.TitlePage}, nil

	default:
		if _, err := os.Stat(mode); err != nil {
			w.rep.record(StageTitlePage, start, mode, err)
			w.log.Error("title page missing", "path", mode, "error", err)
			return nil, fmt.Errorf("title page: %w", err)
		}
		w.rep.record(StageTitlePage, start, mode, nil)
		w.rep.Outputs.TitlePage = mode
		return []string{mode}, nil
	}
}

func (w *run) merge(inputs []string) error {
	start := time.Now()
	w.written = append(w.written, w.paths.Final)
	pages, err := w.o.merger.Merge(inputs, w.paths.Final)
	if err != nil {
		w.log.Error("merge failed", "output", w.paths.Final, "error", err)
		w.rep.record(StageMerge, start, w.paths.Final, err)
		return fmt.Errorf("merge: %w", err)
	}
	w.rep.FinalPages = pages
	w.rep.Outputs.Final = w.paths.Final
	w.rep.record(StageMerge, start, w.paths.Final, nil)
	w.log.Info("final document written", "path", w.paths.Final, "pages", pages)
	return nil
}

// cleanup removes files this run created. Missing files are ignored.
func (w *run) cleanup() {
	for _, path := range w.written {
		err := os.Remove(path)
		switch {
		case err == nil:
			w.log.Info("removed partial output", "path", path)
		case !errors.Is(err, os.ErrNotExist):
			w.log.Warn("cleanup failed", "path", path, "error", err)
		}
	}
	w.written = nil
}
