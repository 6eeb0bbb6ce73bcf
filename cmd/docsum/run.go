package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docsum/internal/chunker"
	"github.com/dgallion1/docsum/internal/pipeline"
	"github.com/dgallion1/docsum/internal/render"
	"github.com/dgallion1/docsum/internal/summarize"
)

var runCmd = &cobra.Command{
	Use:   "run [inputs...]",
	Short: "Extract, summarize and merge documents into one summary PDF",
	Long: `Run extracts the text of every input in order, summarizes it chunk by
chunk, renders <label>_Summary.pdf and merges it behind a title page into
<label>_Full_Summary.pdf. Inputs given as arguments replace the inputs list
from the config file.`,
	RunE: runPipeline,
}

func init() {
	f := runCmd.Flags()
	f.String("label", "", "course label used to name the output files")
	f.String("output-dir", ".", "directory for generated files")
	f.String("title-page", pipeline.TitlePageGenerate, "title page: generate, none, or the path of an existing PDF")
	f.Bool("cleanup", false, "remove generated files when the run fails")
	f.Bool("report", false, "write <label>_Report.yaml")
	f.String("backend", summarize.BackendHuggingFace, "summarizer backend: huggingface, openai or gemini")
	f.String("model", "", "model name (default depends on backend)")
	f.Int("chunk-size", chunker.DefaultSize, "characters per chunk")
	f.Int("max-tokens", 512, "token cap for each chunk sent to the model")
	f.String("chunking", string(chunker.StrategyFixed), "chunking strategy: fixed or sentence")
	f.Bool("refine", false, "summarize the joined chunk summaries once more")
	f.String("font", "", "TTF font for the rendered PDFs (default: built-in Go Regular)")

	for key, name := range map[string]string{
		"label":                 "label",
		"output_dir":            "output-dir",
		"title_page":            "title-page",
		"cleanup":               "cleanup",
		"report":                "report",
		"summarizer.backend":    "backend",
		"summarizer.model":      "model",
		"summarizer.chunk_size": "chunk-size",
		"summarizer.max_tokens": "max-tokens",
		"summarizer.chunking":   "chunking",
		"summarizer.refine":     "refine",
		"render.font_path":      "font",
	} {
		mustBind(key, f.Lookup(name))
	}

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	c := cfg
	if len(args) > 0 {
		c.Inputs = args
	}
	if err := c.ValidateRun(); err != nil {
		return err
	}

	ctx := cmd.Context()
	model, err := summarize.NewModel(ctx, c.ModelOptions())
	if err != nil {
		return err
	}
	if closer, ok := model.(interface{ Close() }); ok {
		defer closer.Close()
	}

	ren, err := render.New(c.RenderOptions(), logger)
	if err != nil {
		return err
	}
	orch := pipeline.NewOrchestrator(
		pipeline.FileExtractor{Options: c.ParserOptions()},
		summarize.New(model, c.SummarizeOptions(), logger),
		ren,
		pipeline.PDFMerger{},
		c.PipelineOptions(model.Name()),
		logger,
	)

	rep, err := orch.Run(ctx, pipeline.Request{
		Inputs:    c.Inputs,
		Label:     c.Label,
		OutputDir: c.OutputDir,
	})
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), rep)
	return nil
}

func printReport(w io.Writer, rep *pipeline.Report) {
	fmt.Fprintf(w, "Summary: %s (%d pages)\n", rep.Outputs.Final, rep.FinalPages)
	if rep.Outputs.Report != "" {
		fmt.Fprintf(w, "Report:  %s\n", rep.Outputs.Report)
	}
	fmt.Fprintf(w, "Total time: %s\n", rep.Elapsed)
}
