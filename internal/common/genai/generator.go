// Package genai provides the structured-JSON generative capability used by
// every evaluation stage, with Gemini, Anthropic and HTTP gateway bindings.
package genai

import (
	"context"
	"errors"
	"strings"

	"github.com/shub15/the-unfair-advantage/internal/common/config"
	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderGateway   = "gateway"
)

const systemInstruction = "You are an expert business analyst evaluating entrepreneurial business plans. " +
	"Extract only facts that are clearly stated and never invent data. Return strict JSON only."

// Request is one structured generation call.
type Request struct {
	Prompt      string
	Temperature float32
	// Schema is an optional JSON schema or example shape appended to the prompt.
	Schema    string
	MaxTokens int
}

// Generator returns model text expected to contain a JSON document. Callers
// parse it with jsonutil.ParseResponse.
type Generator interface {
	GenerateStructuredJSON(ctx context.Context, req Request) (string, error)
	Close() error
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) GenerateStructuredJSON(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

func (f GeneratorFunc) Close() error { return nil }

// New builds the generator selected by cfg.Provider. A missing key returns
// CAPABILITY_NOT_CONFIGURED so callers can run degraded with a nil generator.
func New(ctx context.Context, cfg config.GenAIConfig) (Generator, error) {
	if !cfg.Configured() {
		return nil, apperrors.NewCapabilityNotConfiguredError("genai:" + cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderAnthropic:
		return NewAnthropicGenerator(cfg), nil
	case ProviderGateway:
		return NewGatewayGenerator(cfg), nil
	default:
		return NewGeminiGenerator(ctx, cfg)
	}
}

// BuildPrompt appends the schema block to the prompt when present.
func BuildPrompt(req Request) string {
	if strings.TrimSpace(req.Schema) == "" {
		return req.Prompt
	}
	var sb strings.Builder
	sb.WriteString(req.Prompt)
	sb.WriteString("\n\nReturn ONLY a JSON object matching this structure:\n```json\n")
	sb.WriteString(req.Schema)
	sb.WriteString("\n```")
	return sb.String()
}

// classify maps a provider error onto the taxonomy.
func classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.NewGenerationTimeoutError(err)
	}
	return apperrors.NewGenerationFailedError(err)
}

// Require returns CAPABILITY_NOT_CONFIGURED for a nil generator.
func Require(g Generator) error {
	if g == nil {
		return apperrors.NewCapabilityNotConfiguredError("genai")
	}
	return nil
}
