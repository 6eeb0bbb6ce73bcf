package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/docsum/internal/chunker"
	"github.com/dgallion1/docsum/internal/render"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// load isolates the search path from the developer's own config files.
func load(t *testing.T, file string) (Config, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	v := viper.New()
	Configure(v, file)
	return Load(v)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HF_TOKEN", "")
	t.Setenv("HUGGINGFACEHUB_API_TOKEN", "")

	cfg, err := load(t, "")
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "generate", cfg.TitlePage)
	assert.Equal(t, "huggingface", cfg.Summarizer.Backend)
	assert.Equal(t, 1000, cfg.Summarizer.ChunkSize)
	assert.Equal(t, 512, cfg.Summarizer.MaxTokens)
	assert.Equal(t, "fixed", cfg.Summarizer.Chunking)
	assert.Equal(t, 3, cfg.Summarizer.MaxRetries)
	assert.Equal(t, 120*time.Second, cfg.Summarizer.Timeout)
	assert.Equal(t, 12.0, cfg.Render.FontSize)
	assert.Equal(t, 10.0, cfg.Render.LineHeight)
	assert.Equal(t, 15.0, cfg.Render.BottomMargin)
	assert.True(t, cfg.Extract.PDFFallbackPdftotext)
	assert.Equal(t, "info", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DOCSUM_SUMMARIZER_CHUNK_SIZE", "800")
	t.Setenv("DOCSUM_SUMMARIZER_CHUNKING", "sentence")
	t.Setenv("DOCSUM_SUMMARIZER_TIMEOUT", "30s")
	t.Setenv("DOCSUM_LABEL", "Physics")
	t.Setenv("DOCSUM_LOG_FORMAT", "json")

	cfg, err := load(t, "")
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Summarizer.ChunkSize)
	assert.Equal(t, "sentence", cfg.Summarizer.Chunking)
	assert.Equal(t, 30*time.Second, cfg.Summarizer.Timeout)
	assert.Equal(t, "Physics", cfg.Label)
	assert.Equal(t, "json", cfg.Log.Format)

	opts := cfg.SummarizeOptions()
	assert.Equal(t, chunker.Config{Size: 800, Strategy: chunker.StrategySentence}, opts.Chunking)
}

func TestLoad_ConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "docsum.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
label: Biology
inputs: [one.pdf, two.pdf]
output_dir: out
title_page: none
report: true
summarizer:
  backend: openai
  model: gpt-4o-mini
  api_key: sk-file
  refine: true
render:
  font_size: 11
`), 0o644))

	cfg, err := load(t, file)
	require.NoError(t, err)

	assert.Equal(t, "Biology", cfg.Label)
	assert.Equal(t, []string{"one.pdf", "two.pdf"}, cfg.Inputs)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "none", cfg.TitlePage)
	assert.True(t, cfg.Report)
	assert.Equal(t, "openai", cfg.Summarizer.Backend)
	assert.Equal(t, "sk-file", cfg.Summarizer.APIKey)
	assert.True(t, cfg.Summarizer.Refine)
	assert.Equal(t, 11.0, cfg.Render.FontSize)
	assert.Equal(t, 10.0, cfg.Render.LineHeight)

	po := cfg.PipelineOptions("openai:gpt-4o-mini")
	assert.Equal(t, "none", po.TitlePage)
	assert.True(t, po.WriteReport)
	assert.Equal(t, "openai:gpt-4o-mini", po.Model)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := load(t, filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_APIKeyFallbacks(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("DOCSUM_SUMMARIZER_BACKEND", "openai")

	cfg, err := load(t, "")
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.Summarizer.APIKey)
	assert.Equal(t, "sk-env", cfg.ModelOptions().APIKey)
}

func TestLoad_GeminiKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "g-env")
	t.Setenv("DOCSUM_SUMMARIZER_BACKEND", "gemini")

	cfg, err := load(t, "")
	require.NoError(t, err)
	assert.Equal(t, "g-env", cfg.Summarizer.APIKey)
}

func validConfig() Config {
	return Config{
		Inputs:    []string{"a.pdf"},
		Label:     "Course",
		TitlePage: "generate",
		Summarizer: Summarizer{
			Backend:   "huggingface",
			ChunkSize: 1000,
			MaxTokens: 512,
			Chunking:  "fixed",
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown backend", func(c *Config) { c.Summarizer.Backend = "local" }, "unknown summarizer.backend"},
		{"openai without key", func(c *Config) { c.Summarizer.Backend = "openai" }, "api_key is required"},
		{"zero chunk size", func(c *Config) { c.Summarizer.ChunkSize = 0 }, "chunk_size"},
		{"zero max tokens", func(c *Config) { c.Summarizer.MaxTokens = 0 }, "max_tokens"},
		{"negative retries", func(c *Config) { c.Summarizer.MaxRetries = -1 }, "max_retries"},
		{"bad chunking", func(c *Config) { c.Summarizer.Chunking = "semantic" }, "chunking strategy"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_MissingFont(t *testing.T) {
	cfg := validConfig()
	cfg.Render.FontPath = filepath.Join(t.TempDir(), "arial.ttf")
	assert.ErrorIs(t, cfg.Validate(), render.ErrFontNotFound)
}

func TestValidateRun(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.ValidateRun())

	noInputs := validConfig()
	noInputs.Inputs = nil
	assert.ErrorContains(t, noInputs.ValidateRun(), "input document")

	noLabel := validConfig()
	noLabel.Label = " "
	assert.ErrorContains(t, noLabel.ValidateRun(), "label")

	badCover := validConfig()
	badCover.TitlePage = filepath.Join(t.TempDir(), "cover.pdf")
	assert.ErrorContains(t, badCover.ValidateRun(), "title_page")
}

func TestLogNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := Log{Level: "warn", Format: "json"}.NewLogger(&buf)
	log.Info("hidden")
	log.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
