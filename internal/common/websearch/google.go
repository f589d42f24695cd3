package websearch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shub15/the-unfair-advantage/internal/common/config"
	apperrors "github.com/shub15/the-unfair-advantage/internal/common/errors"
	apphttp "github.com/shub15/the-unfair-advantage/internal/common/http"
	"github.com/shub15/the-unfair-advantage/internal/models"
)

// maxPerRequest is the Custom Search API page size limit.
const maxPerRequest = 10

// GoogleSearcher queries the Google Custom Search JSON API.
type GoogleSearcher struct {
	client   *apphttp.Client
	baseURL  string
	apiKey   string
	engineID string
}

func NewGoogleSearcher(cfg config.WebSearchConfig) *GoogleSearcher {
	return &GoogleSearcher{
		client:   apphttp.NewClient(time.Duration(cfg.Timeout) * time.Millisecond),
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		engineID: cfg.EngineID,
	}
}

type cseResponse struct {
	Items []struct {
		Link    string `json:"link"`
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Mime    string `json:"mime"`
	} `json:"items"`
}

func (g *GoogleSearcher) Enabled() bool { return true }

func (g *GoogleSearcher) Search(ctx context.Context, query string, count int) ([]models.SearchResult, error) {
	if count <= 0 {
		return []models.SearchResult{}, nil
	}
	if count > maxPerRequest {
		count = maxPerRequest
	}

	searchURL, err := g.buildURL(query, count)
	if err != nil {
		return nil, apperrors.NewWebSearchFailedError(err)
	}

	var resp cseResponse
	if err := g.client.GetJSON(ctx, searchURL, nil, &resp); err != nil {
		if isTimeout(ctx, err) {
			return nil, apperrors.NewWebSearchTimeoutError()
		}
		return nil, apperrors.NewWebSearchFailedError(err)
	}

	seen := make(map[string]bool)
	results := make([]models.SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Mime != "" && !strings.Contains(item.Mime, "html") {
			continue
		}
		if seen[item.Link] {
			continue
		}
		seen[item.Link] = true
		results = append(results, models.SearchResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			URL:     item.Link,
		})
	}
	if len(results) > count {
		results = results[:count]
	}
	return results, nil
}

func (g *GoogleSearcher) buildURL(query string, count int) (string, error) {
	base, err := url.Parse(g.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse search base url: %w", err)
	}
	params := url.Values{}
	params.Add("key", g.apiKey)
	params.Add("cx", g.engineID)
	params.Add("q", query)
	params.Add("num", fmt.Sprintf("%d", count))
	base.RawQuery = params.Encode()
	return base.String(), nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Client.Timeout") || strings.Contains(msg, "timeout")
}
