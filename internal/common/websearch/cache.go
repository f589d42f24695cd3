package websearch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shub15/the-unfair-advantage/internal/common/logger"
	"github.com/shub15/the-unfair-advantage/internal/common/metrics"
	"github.com/shub15/the-unfair-advantage/internal/models"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "websearch:"

// CachedSearcher is a Redis read-through cache in front of another Searcher.
// Cache failures never fail a search.
type CachedSearcher struct {
	next   Searcher
	redis  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSearcher(next Searcher, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *CachedSearcher {
	return &CachedSearcher{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		logger: log.With(map[string]interface{}{"component": "websearch-cache"}),
	}
}

func (c *CachedSearcher) Enabled() bool { return c.next.Enabled() }

func (c *CachedSearcher) Search(ctx context.Context, query string, count int) ([]models.SearchResult, error) {
	key := cacheKey(query, count)

	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var cached []models.SearchResult
		if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil {
			metrics.SearchCacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		}
		metrics.SearchCacheLookups.WithLabelValues("error").Inc()
	case err == redis.Nil:
		metrics.SearchCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.SearchCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("search cache read failed", map[string]interface{}{"error": err.Error()})
	}

	results, err := c.next.Search(ctx, query, count)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(results)
	if err == nil {
		if setErr := c.redis.Set(ctx, key, data, c.ttl).Err(); setErr != nil {
			c.logger.Warn("search cache write failed", map[string]interface{}{"error": setErr.Error()})
		}
	}
	return results, nil
}

func cacheKey(query string, count int) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return fmt.Sprintf("%s%d:%s", cacheKeyPrefix, count, hex.EncodeToString(sum[:12]))
}
