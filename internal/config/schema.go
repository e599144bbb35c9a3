package config

import (
	"time"

	"github.com/pagecast/pagecast/internal/extract"
	"github.com/pagecast/pagecast/internal/generate"
	"github.com/pagecast/pagecast/internal/llm"
	"github.com/pagecast/pagecast/internal/llmcall"
)

// Config holds pagecast configuration.
// Stored at: config.yaml in the working directory or ~/.pagecast
type Config struct {
	Extraction   ExtractionCfg             `mapstructure:"extraction" yaml:"extraction"`
	Generation   GenerationCfg             `mapstructure:"generation" yaml:"generation"`
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
	Paths        PathsCfg                  `mapstructure:"paths" yaml:"paths"`
}

// ExtractionCfg tunes PDF section detection.
type ExtractionCfg struct {
	HeadingFontSize      float64 `mapstructure:"heading_font_size" yaml:"heading_font_size"`             // Minimum span size for a level-2 heading
	MajorSectionFontSize float64 `mapstructure:"major_section_font_size" yaml:"major_section_font_size"` // Minimum span size for a level-1 heading
	MinHeadingChars      int     `mapstructure:"min_heading_chars" yaml:"min_heading_chars"`             // Minimum letters in a heading
	MaxPageAppearances   int     `mapstructure:"max_page_appearances" yaml:"max_page_appearances"`       // Nav-bar frequency threshold (0 = half the page count)
}

// GenerationCfg tunes the script generation loop.
type GenerationCfg struct {
	MaxIterations   int     `mapstructure:"max_iterations" yaml:"max_iterations"`       // Evaluate/improve loop cap
	ScoreThreshold  float64 `mapstructure:"score_threshold" yaml:"score_threshold"`     // Overall score that stops the loop
	TargetWordCount int     `mapstructure:"target_word_count" yaml:"target_word_count"` // Requested script length
	MaxLLMCalls     int     `mapstructure:"max_llm_calls" yaml:"max_llm_calls"`         // Hard budget per run
}

// LLMProviderCfg configures an LLM provider.
type LLMProviderCfg struct {
	Type           string `mapstructure:"type" yaml:"type"`                       // "openai", "mock"
	Model          string `mapstructure:"model" yaml:"model"`                     // Model name
	APIKey         string `mapstructure:"api_key" yaml:"api_key"`                 // API key (supports ${ENV_VAR} syntax)
	MaxRetries     int    `mapstructure:"max_retries" yaml:"max_retries"`         // Retry attempts per call
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"` // HTTP timeout
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default selections.
type DefaultsCfg struct {
	LLMProvider string `mapstructure:"llm_provider" yaml:"llm_provider"` // Provider used when none is requested
}

// PathsCfg sets artifact locations. Relative paths resolve against the
// working directory.
type PathsCfg struct {
	Output  string `mapstructure:"output" yaml:"output"`   // Artifact directory
	Prompts string `mapstructure:"prompts" yaml:"prompts"` // Prompt override directory
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionCfg{
			HeadingFontSize:      extract.DefaultHeadingFontSize,
			MajorSectionFontSize: extract.DefaultMajorSectionFontSize,
			MinHeadingChars:      extract.DefaultMinHeadingChars,
			MaxPageAppearances:   extract.DefaultMaxPageAppearances,
		},
		Generation: GenerationCfg{
			MaxIterations:   generate.DefaultMaxIterations,
			ScoreThreshold:  generate.DefaultScoreThreshold,
			TargetWordCount: generate.DefaultTargetWordCount,
			MaxLLMCalls:     llmcall.DefaultMaxCalls,
		},
		LLMProviders: map[string]LLMProviderCfg{
			"openai": {
				Type:    "openai",
				Model:   "gpt-4o",
				APIKey:  "${OPENAI_API_KEY}",
				Enabled: true,
			},
		},
		Defaults: DefaultsCfg{
			LLMProvider: "openai",
		},
		Paths: PathsCfg{
			Output:  "output",
			Prompts: "prompts",
		},
	}
}

// GetLLMProvider returns an LLM provider config by name.
func (c *Config) GetLLMProvider(name string) (LLMProviderCfg, bool) {
	cfg, ok := c.LLMProviders[name]
	return cfg, ok
}

// EnabledLLMProviders returns all enabled LLM providers.
func (c *Config) EnabledLLMProviders() map[string]LLMProviderCfg {
	result := make(map[string]LLMProviderCfg)
	for name, cfg := range c.LLMProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

// ExtractionOptions converts the extraction settings for the extractor.
func (c *Config) ExtractionOptions() extract.Options {
	return extract.Options{
		HeadingFontSize:      c.Extraction.HeadingFontSize,
		MajorSectionFontSize: c.Extraction.MajorSectionFontSize,
		MinHeadingChars:      c.Extraction.MinHeadingChars,
		MaxPageAppearances:   c.Extraction.MaxPageAppearances,
	}
}

// ToLLMRegistryConfig converts the config to a format suitable for
// llm.NewRegistryFromConfig. It resolves all ${ENV_VAR} references in API
// keys.
func (c *Config) ToLLMRegistryConfig() map[string]llm.ProviderConfig {
	cfg := make(map[string]llm.ProviderConfig, len(c.LLMProviders))
	for name, p := range c.LLMProviders {
		cfg[name] = llm.ProviderConfig{
			Type:       p.Type,
			Model:      p.Model,
			APIKey:     ResolveEnvVars(p.APIKey),
			MaxRetries: p.MaxRetries,
			Timeout:    time.Duration(p.TimeoutSeconds) * time.Second,
			Enabled:    p.Enabled,
		}
	}
	return cfg
}
