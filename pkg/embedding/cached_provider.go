package embedding

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultCacheTTL     = 10 * time.Minute
	defaultCacheCleanup = 20 * time.Minute
)

// CachedProvider memoizes embeddings per (taskType, text). Repeated questions in a
// session skip the network round trip.
type CachedProvider struct {
	inner EmbeddingProvider
	cache *cache.Cache
}

var _ EmbeddingProvider = &CachedProvider{}

func NewCachedProvider(inner EmbeddingProvider, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedProvider{
		inner: inner,
		cache: cache.New(ttl, defaultCacheCleanup),
	}
}

func (c *CachedProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	key := taskType + "\x00" + text
	if v, found := c.cache.Get(key); found {
		return v.(*EmbeddingResponse), nil
	}

	res, err := c.inner.Generate(ctx, text, taskType)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, res)
	return res, nil
}

// Len reports how many embeddings are cached.
func (c *CachedProvider) Len() int {
	return c.cache.ItemCount()
}
