package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/docsum/internal/chunker"
	"github.com/dgallion1/docsum/internal/doctree"
)

// ErrEmptySummary is returned when every chunk summary came back blank.
var ErrEmptySummary = errors.New("empty summary")

// Options controls how text is chunked and sent to the model.
type Options struct {
	Chunking   chunker.Config
	MaxTokens  int  // Input cap per chunk, in estimated tokens.
	MaxRetries int  // Retries per chunk on RetryableError.
	Refine     bool // Summarize the joined summary once more.
}

// DefaultOptions mirrors the single-pass fixed-chunk pipeline.
func DefaultOptions() Options {
	return Options{
		Chunking:   chunker.DefaultConfig(),
		MaxTokens:  512,
		MaxRetries: DefaultMaxRetries,
	}
}

// Result is the outcome of one Summarize call.
type Result struct {
	Summary string
	Chunks  int
	Refined bool
	Stats   StatsSnapshot
}

// Summarizer drives a Model over the chunks of a text, one at a time.
type Summarizer struct {
	model   Model
	opts    Options
	log     *slog.Logger
	stats   *Stats
	backoff func(attempt int) time.Duration
}

func New(model Model, opts Options, log *slog.Logger) *Summarizer {
	if log == nil {
		log = slog.Default()
	}
	opts.MaxRetries = max(opts.MaxRetries, 0)
	return &Summarizer{
		model:   model,
		opts:    opts,
		log:     log,
		stats:   NewStats(time.Hour),
		backoff: Backoff,
	}
}

// Summarize splits text, summarizes every chunk in order and joins the
// outputs with single spaces. Any chunk failure aborts the whole call.
func (s *Summarizer) Summarize(ctx context.Context, text string) (*Result, error) {
	log := s.log.With("model", s.model.Name())
	chunks := chunker.Split(text, s.opts.Chunking)
	log.Info("summarizing text",
		"chars", utf8.RuneCountInString(text),
		"chunks", len(chunks),
		"strategy", s.opts.Chunking.Strategy,
	)

	summary, err := s.summarizeChunks(ctx, chunks, log)
	if err != nil {
		return nil, err
	}
	res := &Result{Summary: summary, Chunks: len(chunks)}

	if s.opts.Refine && len(chunks) > 1 && summary != "" {
		pass := chunker.Split(summary, s.opts.Chunking)
		log.Info("refining joined summary", "chunks", len(pass))
		refined, err := s.summarizeChunks(ctx, pass, log.With("pass", "refine"))
		if err != nil {
			return nil, fmt.Errorf("refine: %w", err)
		}
		res.Summary = refined
		res.Refined = true
	}

	res.Stats = s.stats.Snapshot()
	if res.Summary == "" {
		return nil, ErrEmptySummary
	}
	return res, nil
}

// Stats returns the latency snapshot so far.
func (s *Summarizer) Stats() StatsSnapshot {
	return s.stats.Snapshot()
}

func (s *Summarizer) summarizeChunks(ctx context.Context, chunks []doctree.Chunk, log *slog.Logger) (string, error) {
	var sb strings.Builder
	for _, c := range chunks {
		out, err := s.summarizeChunk(ctx, c, log)
		if err != nil {
			return "", fmt.Errorf("summarize chunk %d of %d: %w", c.Index+1, len(chunks), err)
		}
		sb.WriteString(out)
		sb.WriteString(" ")
	}
	return strings.TrimSpace(sb.String()), nil
}

func (s *Summarizer) summarizeChunk(ctx context.Context, c doctree.Chunk, log *slog.Logger) (string, error) {
	input := chunker.TruncateTokens(c.Text, s.opts.MaxTokens)

	var lastErr error
	for attempt := 0; attempt <= s.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := s.backoff(attempt - 1)
			log.Warn("retrying chunk", "chunk", c.Index, "attempt", attempt, "wait", wait, "error", lastErr)
			if err := sleep(ctx, wait); err != nil {
				return "", err
			}
		}

		start := time.Now()
		out, err := s.model.Summarize(ctx, input)
		s.stats.Record(time.Since(start))
		if err == nil {
			log.Debug("chunk summarized", "chunk", c.Index, "in_chars", len(input), "out_chars", len(out))
			return out, nil
		}
		if !IsRetryable(err) {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("giving up after %d retries: %w", s.opts.MaxRetries, lastErr)
}
