package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
`)

	cfg, err := LoadFromFile(path, true)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.GenAI.Provider)
	assert.Equal(t, "gemini-1.5-flash", cfg.GenAI.Model)
	assert.Equal(t, 3, cfg.WebSearch.ResultsPerQuery)
	assert.Equal(t, "India", cfg.WebSearch.Region)
	assert.Equal(t, "en-IN", cfg.Pipeline.DefaultLocale)
	assert.Equal(t, 0.5, cfg.Pipeline.GroundingMinRatio)
	assert.Equal(t, "evaluations", cfg.Database.Elasticsearch.Index)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
}

func TestLoadFromFile_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_GENAI_KEY", "secret-key")
	path := writeConfig(t, `
camunda:
  broker_address: localhost:26500
genai:
  provider: anthropic
  api_key: ${TEST_GENAI_KEY}
workers:
  extract-fields:
    enabled: true
`)

	cfg, err := LoadFromFile(path, true)
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.GenAI.APIKey)
	assert.Equal(t, "claude-sonnet-4-5", cfg.GenAI.Model)
	assert.True(t, cfg.GenAI.Configured())
	assert.Equal(t, 5, cfg.Workers["extract-fields"].MaxJobsActive)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		strict  bool
		wantErr string
	}{
		{
			name:    "missing broker in strict mode",
			body:    "app:\n  name: x\n",
			strict:  true,
			wantErr: "camunda.broker_address is required",
		},
		{
			name:   "missing broker allowed for offline use",
			body:   "app:\n  name: x\n",
			strict: false,
		},
		{
			name:    "unknown provider",
			body:    "camunda:\n  broker_address: a:1\ngenai:\n  provider: mystery\n",
			strict:  true,
			wantErr: "not supported",
		},
		{
			name:    "grounding ratio out of range",
			body:    "camunda:\n  broker_address: a:1\npipeline:\n  grounding_min_ratio: 1.5\n",
			strict:  true,
			wantErr: "grounding_min_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body), tt.strict)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfiguredHelpers(t *testing.T) {
	assert.False(t, GenAIConfig{Provider: "gemini"}.Configured())
	assert.True(t, GenAIConfig{Provider: "gateway", BaseURL: "http://ai"}.Configured())
	assert.False(t, WebSearchConfig{APIKey: "k"}.Configured())
	assert.True(t, WebSearchConfig{APIKey: "k", EngineID: "e"}.Configured())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestDefaults(t *testing.T) {
	t.Setenv("GENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg := Defaults()

	assert.Equal(t, "from-env", cfg.GenAI.APIKey)
	assert.Equal(t, "gemini", cfg.GenAI.Provider)
	assert.Equal(t, "output", cfg.Pipeline.OutputDir)
	assert.Equal(t, ":8080", cfg.Observability.MetricsAddr)
}
