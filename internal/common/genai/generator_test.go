package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shub15/the-unfair-advantage/internal/common/config"
	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Factory
// ==========================

func TestNew_NotConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.GenAIConfig
	}{
		{"gemini without key", config.GenAIConfig{Provider: ProviderGemini}},
		{"anthropic without key", config.GenAIConfig{Provider: ProviderAnthropic}},
		{"gateway without url", config.GenAIConfig{Provider: ProviderGateway, APIKey: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(context.Background(), tt.cfg)
			assert.Nil(t, g)
			assert.True(t, errors.Is(err, apperrors.ErrCapabilityNotConfigured))
		})
	}
}

func TestRequire(t *testing.T) {
	assert.True(t, errors.Is(Require(nil), apperrors.ErrCapabilityNotConfigured))
	assert.NoError(t, Require(GeneratorFunc(func(context.Context, Request) (string, error) { return "", nil })))
}

func TestBuildPrompt(t *testing.T) {
	assert.Equal(t, "hello", BuildPrompt(Request{Prompt: "hello"}))

	p := BuildPrompt(Request{Prompt: "hello", Schema: `{"a": "string"}`})
	assert.Contains(t, p, "hello")
	assert.Contains(t, p, "```json\n{\"a\": \"string\"}\n```")
}

// ==========================
// Anthropic binding
// ==========================

type mockMessager struct {
	params   anthropic.MessageNewParams
	response *anthropic.Message
	err      error
}

func (m *mockMessager) New(_ context.Context, p anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	m.params = p
	return m.response, m.err
}

func TestAnthropicGenerator(t *testing.T) {
	mock := &mockMessager{response: &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: `{"ok":`},
			{Type: "text", Text: ` true}`},
		},
	}}
	g := NewAnthropicGeneratorWithMessager(mock, "claude-test", 0)

	out, err := g.GenerateStructuredJSON(context.Background(), Request{Prompt: "p", Temperature: 0.2})
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, out)
	assert.Equal(t, int64(4096), mock.params.MaxTokens)
	assert.Equal(t, anthropic.Model("claude-test"), mock.params.Model)
}

func TestAnthropicGenerator_Errors(t *testing.T) {
	g := NewAnthropicGeneratorWithMessager(&mockMessager{err: errors.New("overloaded")}, "m", 100)
	_, err := g.GenerateStructuredJSON(context.Background(), Request{Prompt: "p"})
	assert.True(t, errors.Is(err, apperrors.ErrGenerationFailed))

	g = NewAnthropicGeneratorWithMessager(&mockMessager{response: &anthropic.Message{}}, "m", 100)
	_, err = g.GenerateStructuredJSON(context.Background(), Request{Prompt: "p"})
	assert.True(t, errors.Is(err, apperrors.ErrGenerationFailed))
}

// ==========================
// Gateway binding
// ==========================

func TestGatewayGenerator(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ai/generate", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req gatewayRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float32(0.1), req.Temperature)
		assert.Equal(t, 2048, req.MaxTokens)

		_ = json.NewEncoder(w).Encode(gatewayResponse{Text: `{"answer": 42}`})
	}))
	defer server.Close()

	g := NewGatewayGenerator(config.GenAIConfig{BaseURL: server.URL + "/", APIKey: "key", MaxTokens: 2048})
	out, err := g.GenerateStructuredJSON(context.Background(), Request{Prompt: "p", Temperature: 0.1})

	require.NoError(t, err)
	assert.Equal(t, `{"answer": 42}`, out)
}

func TestGatewayGenerator_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	g := NewGatewayGenerator(config.GenAIConfig{BaseURL: server.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := g.GenerateStructuredJSON(ctx, Request{Prompt: "p"})
	assert.True(t, errors.Is(err, apperrors.ErrGenerationTimeout))
}

func TestGatewayGenerator_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := NewGatewayGenerator(config.GenAIConfig{BaseURL: server.URL})
	_, err := g.GenerateStructuredJSON(context.Background(), Request{Prompt: "p"})
	assert.True(t, errors.Is(err, apperrors.ErrGenerationFailed))
}
