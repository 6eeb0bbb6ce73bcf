package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/docsum/internal/chunker"
	"github.com/dgallion1/docsum/internal/parser"
	"github.com/dgallion1/docsum/internal/pipeline"
	"github.com/dgallion1/docsum/internal/render"
	"github.com/dgallion1/docsum/internal/summarize"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. DOCSUM_SUMMARIZER_MODEL.
const EnvPrefix = "DOCSUM"

type Config struct {
	Inputs    []string `mapstructure:"inputs"`
	Label     string   `mapstructure:"label"`
	OutputDir string   `mapstructure:"output_dir"`
	TitlePage string   `mapstructure:"title_page"`
	Cleanup   bool     `mapstructure:"cleanup"`
	Report    bool     `mapstructure:"report"`

	Summarizer Summarizer `mapstructure:"summarizer"`
	Render     Render     `mapstructure:"render"`
	Extract    Extract    `mapstructure:"extract"`
	Log        Log        `mapstructure:"log"`
}

// Summarizer selects the model backend and how text is fed to it.
type Summarizer struct {
	Backend           string        `mapstructure:"backend"`
	Model             string        `mapstructure:"model"`
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	ChunkSize         int           `mapstructure:"chunk_size"`
	MaxTokens         int           `mapstructure:"max_tokens"`
	Chunking          string        `mapstructure:"chunking"`
	Refine            bool          `mapstructure:"refine"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

type Render struct {
	FontPath     string  `mapstructure:"font_path"`
	FontSize     float64 `mapstructure:"font_size"`
	LineHeight   float64 `mapstructure:"line_height"`
	BottomMargin float64 `mapstructure:"bottom_margin"`
}

type Extract struct {
	PDFFallbackPdftotext bool `mapstructure:"pdf_fallback_pdftotext"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every key so environment overrides resolve.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("inputs", []string{})
	v.SetDefault("label", "")
	v.SetDefault("output_dir", ".")
	v.SetDefault("title_page", pipeline.TitlePageGenerate)
	v.SetDefault("cleanup", false)
	v.SetDefault("report", false)

	v.SetDefault("summarizer.backend", summarize.BackendHuggingFace)
	v.SetDefault("summarizer.model", "")
	v.SetDefault("summarizer.api_key", "")
	v.SetDefault("summarizer.base_url", "")
	v.SetDefault("summarizer.chunk_size", chunker.DefaultSize)
	v.SetDefault("summarizer.max_tokens", 512)
	v.SetDefault("summarizer.chunking", string(chunker.StrategyFixed))
	v.SetDefault("summarizer.refine", false)
	v.SetDefault("summarizer.max_retries", summarize.DefaultMaxRetries)
	v.SetDefault("summarizer.requests_per_second", 0.0)
	v.SetDefault("summarizer.timeout", 120*time.Second)

	def := render.DefaultOptions()
	v.SetDefault("render.font_path", "")
	v.SetDefault("render.font_size", def.FontSize)
	v.SetDefault("render.line_height", def.LineHeight)
	v.SetDefault("render.bottom_margin", def.BottomMargin)

	v.SetDefault("extract.pdf_fallback_pdftotext", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Configure wires defaults, environment lookup and the config file search
// path into v. An explicit file overrides the search path.
func Configure(v *viper.Viper, file string) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		return
	}
	v.SetConfigName("docsum")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "docsum"))
	}
}

// Load reads the config file, if any, and decodes v into a Config. A
// missing file is not an error unless it was named explicitly.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Summarizer.APIKey == "" {
		cfg.Summarizer.APIKey = apiKeyFromEnv(cfg.Summarizer.Backend)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return cfg, nil
}

func apiKeyFromEnv(backend string) string {
	switch strings.ToLower(backend) {
	case summarize.BackendOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case summarize.BackendGemini:
		return envOr("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY"))
	default:
		return envOr("HF_TOKEN", os.Getenv("HUGGINGFACEHUB_API_TOKEN"))
	}
}

// Validate checks settings shared by every command.
func (c Config) Validate() error {
	switch strings.ToLower(c.Summarizer.Backend) {
	case summarize.BackendHuggingFace:
	case summarize.BackendOpenAI, summarize.BackendGemini:
		if c.Summarizer.APIKey == "" {
			return fmt.Errorf("summarizer.api_key is required for the %s backend", c.Summarizer.Backend)
		}
	default:
		return fmt.Errorf("unknown summarizer.backend %q (want huggingface, openai or gemini)", c.Summarizer.Backend)
	}
	if c.Summarizer.ChunkSize <= 0 {
		return fmt.Errorf("summarizer.chunk_size must be positive, got %d", c.Summarizer.ChunkSize)
	}
	if c.Summarizer.MaxTokens <= 0 {
		return fmt.Errorf("summarizer.max_tokens must be positive, got %d", c.Summarizer.MaxTokens)
	}
	if c.Summarizer.MaxRetries < 0 {
		return fmt.Errorf("summarizer.max_retries must not be negative")
	}
	if _, err := chunker.ParseStrategy(c.Summarizer.Chunking); err != nil {
		return err
	}
	if c.Render.FontPath != "" {
		if _, err := os.Stat(c.Render.FontPath); err != nil {
			return fmt.Errorf("%w: %s", render.ErrFontNotFound, c.Render.FontPath)
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// ValidateRun adds the checks only the pipeline needs.
func (c Config) ValidateRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.Inputs) == 0 {
		return errors.New("at least one input document is required")
	}
	if strings.TrimSpace(c.Label) == "" {
		return errors.New("label is required")
	}
	if c.TitlePage != pipeline.TitlePageGenerate && c.TitlePage != pipeline.TitlePageNone && c.TitlePage != "" {
		if _, err := os.Stat(c.TitlePage); err != nil {
			return fmt.Errorf("title_page: %w", err)
		}
	}
	return nil
}

func (c Config) ModelOptions() summarize.ModelOptions {
	return summarize.ModelOptions{
		Backend:           c.Summarizer.Backend,
		Model:             c.Summarizer.Model,
		APIKey:            c.Summarizer.APIKey,
		BaseURL:           c.Summarizer.BaseURL,
		Timeout:           c.Summarizer.Timeout,
		MaxTokens:         c.Summarizer.MaxTokens,
		RequestsPerSecond: c.Summarizer.RequestsPerSecond,
	}
}

func (c Config) SummarizeOptions() summarize.Options {
	strategy, _ := chunker.ParseStrategy(c.Summarizer.Chunking)
	return summarize.Options{
		Chunking:   chunker.Config{Size: c.Summarizer.ChunkSize, Strategy: strategy},
		MaxTokens:  c.Summarizer.MaxTokens,
		MaxRetries: c.Summarizer.MaxRetries,
		Refine:     c.Summarizer.Refine,
	}
}

func (c Config) RenderOptions() render.Options {
	return render.Options{
		FontPath:     c.Render.FontPath,
		FontSize:     c.Render.FontSize,
		LineHeight:   c.Render.LineHeight,
		BottomMargin: c.Render.BottomMargin,
	}
}

func (c Config) ParserOptions() parser.Options {
	return parser.Options{PDFFallbackPdftotext: c.Extract.PDFFallbackPdftotext}
}

func (c Config) PipelineOptions(model string) pipeline.Options {
	return pipeline.Options{
		TitlePage:   c.TitlePage,
		Cleanup:     c.Cleanup,
		WriteReport: c.Report,
		Model:       model,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
