package genai

import (
	"context"
	"fmt"
	"strings"

	"github.com/shub15/the-unfair-advantage/internal/common/config"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicMessager is the subset of the Messages service used here.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicGenerator struct {
	messages  AnthropicMessager
	model     string
	maxTokens int
}

func NewAnthropicGenerator(cfg config.GenAIConfig) *AnthropicGenerator {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	c := anthropic.NewClient(opts...)
	return NewAnthropicGeneratorWithMessager(&c.Messages, cfg.Model, cfg.MaxTokens)
}

func NewAnthropicGeneratorWithMessager(m AnthropicMessager, model string, maxTokens int) *AnthropicGenerator {
	if maxTokens == 0 {
		maxTokens = 4096
	}
	return &AnthropicGenerator{messages: m, model: model, maxTokens: maxTokens}
}

func (a *AnthropicGenerator) GenerateStructuredJSON(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = a.maxTokens
	}

	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(maxTokens),
		System:      []anthropic.TextBlockParam{{Text: systemInstruction}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(req)))},
		Temperature: anthropic.Float(float64(req.Temperature)),
	})
	if err != nil {
		return "", classify(ctx, err)
	}

	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	if sb.Len() == 0 {
		return "", classify(ctx, fmt.Errorf("no text blocks in response"))
	}
	return sb.String(), nil
}

func (a *AnthropicGenerator) Close() error { return nil }
