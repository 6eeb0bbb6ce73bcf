package pipeline

import (
	"crypto/sha256"
	"fmt"
	"os"
	"time"

	"github.com/dgallion1/docsum/internal/summarize"
	"go.yaml.in/yaml/v3"
)

// Status is the outcome of a run, a stage or a single input.
type Status string

const (
	StatusRunning Status = "running"
	StatusOK      Status = "ok"
	StatusEmpty   Status = "empty"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Stage names, in run order.
const (
	StageExtract   = "extract"
	StageSummarize = "summarize"
	StageRender    = "render"
	StageTitlePage = "title_page"
	StageMerge     = "merge"
)

// InputResult records what extraction produced for one document.
type InputResult struct {
	Path        string `yaml:"path"`
	Status      Status `yaml:"status"`
	Pages       int    `yaml:"pages,omitempty"`
	Chars       int    `yaml:"chars"`
	ContentHash string `yaml:"content_hash,omitempty"`
	Error       string `yaml:"error,omitempty"`
}

// StageResult is the explicit outcome of one pipeline stage.
type StageResult struct {
	Stage    string        `yaml:"stage"`
	Status   Status        `yaml:"status"`
	Output   string        `yaml:"output,omitempty"`
	Error    string        `yaml:"error,omitempty"`
	Duration time.Duration `yaml:"duration"`
}

// Outputs are the files a run writes.
type Outputs struct {
	TitlePage string `yaml:"title_page,omitempty"`
	Summary   string `yaml:"summary"`
	Final     string `yaml:"final"`
	Report    string `yaml:"report,omitempty"`
}

// Report is returned by every Run, successful or not.
type Report struct {
	RunID      string                  `yaml:"run_id"`
	Label      string                  `yaml:"label"`
	Model      string                  `yaml:"model,omitempty"`
	StartedAt  time.Time               `yaml:"started_at"`
	Elapsed    string                  `yaml:"elapsed"`
	Status     Status                  `yaml:"status"`
	Error      string                  `yaml:"error,omitempty"`
	Inputs     []InputResult           `yaml:"inputs"`
	Chunks     int                     `yaml:"chunks"`
	Refined    bool                    `yaml:"refined"`
	FinalPages int                     `yaml:"final_pages,omitempty"`
	Stages     []StageResult           `yaml:"stages"`
	Outputs    Outputs                 `yaml:"outputs"`
	Latency    summarize.StatsSnapshot `yaml:"latency"`
}

// Stage returns the recorded result for name, if the stage ran.
func (r *Report) Stage(name string) (StageResult, bool) {
	for _, s := range r.Stages {
		if s.Stage == name {
			return s, true
		}
	}
	return StageResult{}, false
}

func (r *Report) record(stage string, start time.Time, output string, err error) {
	res := StageResult{
		Stage:    stage,
		Status:   StatusOK,
		Output:   output,
		Duration: time.Since(start).Round(time.Millisecond),
	}
	if err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
	}
	r.Stages = append(r.Stages, res)
}

func (r *Report) skip(stage, reason string) {
	r.Stages = append(r.Stages, StageResult{Stage: stage, Status: StatusSkipped, Error: reason})
}

// WriteReport serializes r as YAML to path.
func WriteReport(path string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// FormatElapsed renders d as whole minutes and seconds, e.g. "2 min 5 sec".
func FormatElapsed(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%d min %d sec", total/60, total%60)
}
