package genai

import (
	"context"
	"strings"

	"github.com/shub15/the-unfair-advantage/internal/common/config"
	apphttp "github.com/shub15/the-unfair-advantage/internal/common/http"
)

// GatewayGenerator calls an internal AI gateway at POST {base}/api/ai/generate.
type GatewayGenerator struct {
	client    *apphttp.Client
	baseURL   string
	apiKey    string
	maxTokens int
}

type gatewayRequest struct {
	Prompt       string  `json:"prompt"`
	MaxTokens    int     `json:"max_tokens"`
	Temperature  float32 `json:"temperature"`
	ResponseType string  `json:"response_type"`
}

type gatewayResponse struct {
	Text string `json:"text"`
}

func NewGatewayGenerator(cfg config.GenAIConfig) *GatewayGenerator {
	return &GatewayGenerator{
		// deadline comes from the caller's context
		client:    apphttp.NewClient(0),
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		maxTokens: cfg.MaxTokens,
	}
}

func (g *GatewayGenerator) GenerateStructuredJSON(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = g.maxTokens
	}

	headers := map[string]string{}
	if g.apiKey != "" {
		headers["Authorization"] = "Bearer " + g.apiKey
	}

	var resp gatewayResponse
	err := g.client.PostJSON(ctx, g.baseURL+"/api/ai/generate", headers, gatewayRequest{
		Prompt:       BuildPrompt(req),
		MaxTokens:    maxTokens,
		Temperature:  req.Temperature,
		ResponseType: "json",
	}, &resp)
	if err != nil {
		return "", classify(ctx, err)
	}
	return resp.Text, nil
}

func (g *GatewayGenerator) Close() error { return nil }
