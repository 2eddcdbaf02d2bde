package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Config holds all application configuration. Built once at startup
// from environment variables (plus CLI overrides) and immutable
// afterwards.
//
// Environment Variables:
// LLM Configuration:
// - LLM_API_KEY: API key for the LLM provider (required)
// - LLM_API_URL: API endpoint URL (default: https://openrouter.ai/api/v1)
// - LLM_MODEL: Model name to use (default: openai/gpt-4o-mini)
// - LLM_MAX_TOKENS: Maximum tokens for responses (default: 2000)
// - LLM_TEMPERATURE: Temperature for responses (default: 0.3)
// - LLM_TIMEOUT: Request timeout in seconds (default: 60)
// - LLM_SITE_URL: Site URL for HTTP referer header (optional)
// - LLM_APP_NAME: Application name for X-Title header (optional)
//
// Translation Configuration:
// - SOURCE_LANGUAGE: BCP 47 tag of the source language (default: autodetect)
// - TARGET_LANGUAGE: BCP 47 tag of the target language (default: zh)
// - STATEMENT_DELIMITERS: comma-separated extra statement-ending suffixes
// - MAX_AGGREGATED_STATEMENTS: cue cap per translation unit (default: 5)
// - MAX_AGGREGATED_WORDS: word cap per translation unit (default: 30)
// - APPEND_ORIGINAL: keep the original text under the translation (default: false)
//
// Pipeline Configuration:
// - INPUT_DIR: directory scanned for .srt files (default: /subtitles)
// - OUTPUT_DIR: directory translated files are written to (default: INPUT_DIR)
// - HISTORY_DB: path of the run-history SQLite database (optional)
// - CRON_EXPR: schedule for watch mode (default: 0 0 * * *)
type Config struct {
	LLM       LLMConfig       `json:"llm"`
	Translate TranslateConfig `json:"translate"`
	Pipeline  PipelineConfig  `json:"pipeline"`
}

// LLMConfig holds the configuration for the LLM client.
type LLMConfig struct {
	APIKey      string  `json:"api_key"`
	APIURL      string  `json:"api_url"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Timeout     int     `json:"timeout"`
	SiteURL     string  `json:"site_url"`
	AppName     string  `json:"app_name"`
}

// TranslateConfig holds the aggregation and translation parameters.
// A SourceLanguage of language.Und means detect per file.
type TranslateConfig struct {
	SourceLanguage          language.Tag `json:"source_language"`
	TargetLanguage          language.Tag `json:"target_language"`
	StatementDelimiters     []string     `json:"statement_delimiters"`
	MaxAggregatedStatements int          `json:"max_aggregated_statements"`
	MaxAggregatedWords      int          `json:"max_aggregated_words"`
	AppendOriginal          bool         `json:"append_original"`
}

// PipelineConfig holds the pipeline paths and watch-mode schedule.
type PipelineConfig struct {
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`
	HistoryDB string `json:"history_db"`
	CronExpr  string `json:"cron_expr"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment
// variables and options.
func NewFromEnv(opts ...Option) (*Config, error) {
	sourceLang := language.Und
	if raw := getEnvString("SOURCE_LANGUAGE", ""); raw != "" {
		tag, err := language.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SOURCE_LANGUAGE %q: %w", raw, err)
		}
		sourceLang = tag
	}

	targetLang, err := language.Parse(getEnvString("TARGET_LANGUAGE", "zh"))
	if err != nil {
		return nil, fmt.Errorf("invalid TARGET_LANGUAGE: %w", err)
	}

	inputDir := getEnvString("INPUT_DIR", "/subtitles")

	config := &Config{
		LLM: LLMConfig{
			APIKey:      getEnvString("LLM_API_KEY", ""),
			APIURL:      getEnvString("LLM_API_URL", "https://openrouter.ai/api/v1"),
			Model:       getEnvString("LLM_MODEL", "openai/gpt-4o-mini"),
			MaxTokens:   getEnvInt("LLM_MAX_TOKENS", 2000),
			Temperature: getEnvFloat("LLM_TEMPERATURE", 0.3),
			Timeout:     getEnvInt("LLM_TIMEOUT", 60),
			SiteURL:     getEnvString("LLM_SITE_URL", ""),
			AppName:     getEnvString("LLM_APP_NAME", ""),
		},
		Translate: TranslateConfig{
			SourceLanguage:          sourceLang,
			TargetLanguage:          targetLang,
			StatementDelimiters:     splitList(getEnvString("STATEMENT_DELIMITERS", "")),
			MaxAggregatedStatements: getEnvInt("MAX_AGGREGATED_STATEMENTS", 5),
			MaxAggregatedWords:      getEnvInt("MAX_AGGREGATED_WORDS", 30),
			AppendOriginal:          getEnvBool("APPEND_ORIGINAL", false),
		},
		Pipeline: PipelineConfig{
			InputDir:  inputDir,
			OutputDir: getEnvString("OUTPUT_DIR", inputDir),
			HistoryDB: getEnvString("HISTORY_DB", ""),
			CronExpr:  getEnvString("CRON_EXPR", "0 0 * * *"),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.Translate.MaxAggregatedStatements < 1 {
		return fmt.Errorf("MAX_AGGREGATED_STATEMENTS must be at least 1")
	}
	if c.Translate.MaxAggregatedWords < 1 {
		return fmt.Errorf("MAX_AGGREGATED_WORDS must be at least 1")
	}
	if c.Translate.TargetLanguage == language.Und {
		return fmt.Errorf("TARGET_LANGUAGE is required")
	}
	return nil
}

// splitList splits a comma-separated env value, dropping empty items.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment variables with default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvBool gets a boolean value from environment variables with default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
