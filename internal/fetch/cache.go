package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultPageCacheTTL is how long a fetched page is served from cache.
const DefaultPageCacheTTL = time.Hour

// PageCache stores successful fetch results keyed by URL.
type PageCache interface {
	// Get returns the cached result, or nil when the URL is not cached.
	Get(ctx context.Context, urlStr string) (*Result, error)
	Set(ctx context.Context, urlStr string, result *Result, ttl time.Duration) error
}

// RedisPageCache keeps pages in Redis as JSON under keyPrefix + sha256(url).
type RedisPageCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisPageCache wraps client. An empty keyPrefix defaults to "hireagent:page:".
func NewRedisPageCache(client redis.UniversalClient, keyPrefix string) *RedisPageCache {
	if keyPrefix == "" {
		keyPrefix = "hireagent:page:"
	}
	return &RedisPageCache{client: client, keyPrefix: keyPrefix}
}

// DialRedis parses a redis:// URL, connects and pings the server.
func DialRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func (c *RedisPageCache) key(urlStr string) string {
	sum := sha256.Sum256([]byte(urlStr))
	return c.keyPrefix + hex.EncodeToString(sum[:])
}

// Get implements PageCache.
func (c *RedisPageCache) Get(ctx context.Context, urlStr string) (*Result, error) {
	raw, err := c.client.Get(ctx, c.key(urlStr)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached page %s: %w", urlStr, err)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("corrupt cached page %s: %w", urlStr, err)
	}
	return &result, nil
}

// Set implements PageCache.
func (c *RedisPageCache) Set(ctx context.Context, urlStr string, result *Result, ttl time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode page %s: %w", urlStr, err)
	}
	if err := c.client.Set(ctx, c.key(urlStr), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache page %s: %w", urlStr, err)
	}
	return nil
}

// CachedFetcher serves pages from a PageCache and falls through to another
// Getter on a miss. Cache failures are logged and never fail the fetch.
type CachedFetcher struct {
	next   Getter
	cache  PageCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedFetcher wraps next with cache. A zero ttl uses DefaultPageCacheTTL.
func NewCachedFetcher(next Getter, cache PageCache, ttl time.Duration, logger *zap.Logger) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultPageCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFetcher{next: next, cache: cache, ttl: ttl, logger: logger.Named("page_cache")}
}

// Get implements Getter.
func (f *CachedFetcher) Get(ctx context.Context, urlStr string) (*Result, error) {
	cached, err := f.cache.Get(ctx, urlStr)
	if err != nil {
		f.logger.Warn("page cache read failed", zap.String("url", urlStr), zap.Error(err))
	} else if cached != nil {
		f.logger.Debug("page cache hit", zap.String("url", urlStr))
		return cached, nil
	}

	result, err := f.next.Get(ctx, urlStr)
	if err != nil {
		return result, err
	}

	if err := f.cache.Set(ctx, urlStr, result, f.ttl); err != nil {
		f.logger.Warn("page cache write failed", zap.String("url", urlStr), zap.Error(err))
	}
	return result, nil
}
