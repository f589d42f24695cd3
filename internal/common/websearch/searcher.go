// Package websearch provides the WebSearch capability: a Google Custom
// Search binding, a Redis read-through cache and a disabled binding.
package websearch

import (
	"context"

	"github.com/shub15/the-unfair-advantage/internal/models"
)

// Searcher returns up to count results for query. A disabled searcher and a
// query with no hits both return an empty slice and no error.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]models.SearchResult, error)
	Enabled() bool
}

// Disabled is the binding used when no search credentials are configured.
type Disabled struct{}

func (Disabled) Search(context.Context, string, int) ([]models.SearchResult, error) {
	return []models.SearchResult{}, nil
}

func (Disabled) Enabled() bool { return false }
