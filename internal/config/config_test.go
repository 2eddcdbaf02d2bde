package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNewFromEnv_Defaults(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.LLM.APIKey)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.APIURL)
	assert.Equal(t, language.Und, cfg.Translate.SourceLanguage)
	assert.Equal(t, language.Chinese, cfg.Translate.TargetLanguage)
	assert.Equal(t, 5, cfg.Translate.MaxAggregatedStatements)
	assert.Equal(t, 30, cfg.Translate.MaxAggregatedWords)
	assert.False(t, cfg.Translate.AppendOriginal)
	assert.Equal(t, "/subtitles", cfg.Pipeline.InputDir)
	assert.Equal(t, cfg.Pipeline.InputDir, cfg.Pipeline.OutputDir)
	assert.Equal(t, "0 0 * * *", cfg.Pipeline.CronExpr)
}

func TestNewFromEnv_Overrides(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("SOURCE_LANGUAGE", "en")
	t.Setenv("TARGET_LANGUAGE", "fr")
	t.Setenv("STATEMENT_DELIMITERS", "~, ;,")
	t.Setenv("MAX_AGGREGATED_STATEMENTS", "3")
	t.Setenv("MAX_AGGREGATED_WORDS", "12")
	t.Setenv("APPEND_ORIGINAL", "true")
	t.Setenv("INPUT_DIR", "/in")
	t.Setenv("OUTPUT_DIR", "/out")
	t.Setenv("HISTORY_DB", "/data/history.db")

	cfg, err := NewFromEnv()
	require.NoError(t, err)

	assert.Equal(t, language.English, cfg.Translate.SourceLanguage)
	assert.Equal(t, language.French, cfg.Translate.TargetLanguage)
	assert.Equal(t, []string{"~", ";"}, cfg.Translate.StatementDelimiters)
	assert.Equal(t, 3, cfg.Translate.MaxAggregatedStatements)
	assert.Equal(t, 12, cfg.Translate.MaxAggregatedWords)
	assert.True(t, cfg.Translate.AppendOriginal)
	assert.Equal(t, "/in", cfg.Pipeline.InputDir)
	assert.Equal(t, "/out", cfg.Pipeline.OutputDir)
	assert.Equal(t, "/data/history.db", cfg.Pipeline.HistoryDB)
}

func TestNewFromEnv_MissingAPIKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")

	_, err := NewFromEnv()
	assert.Error(t, err)
}

func TestNewFromEnv_InvalidLanguage(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("TARGET_LANGUAGE", "not a tag")

	_, err := NewFromEnv()
	assert.Error(t, err)
}

func TestNewFromEnv_Options(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")

	cfg, err := NewFromEnv(func(c *Config) {
		c.Translate.MaxAggregatedWords = 50
	})
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Translate.MaxAggregatedWords)
}

func TestNewFromEnv_InvalidCapsRejected(t *testing.T) {
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("MAX_AGGREGATED_STATEMENTS", "0")

	_, err := NewFromEnv()
	assert.Error(t, err)
}
