package generator

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/v75-value/internal/config"
	"github.com/yourusername/v75-value/internal/metrics"
)

// CachedGenerator wraps a TextGenerator with reply caching. Re-analysing a race whose scores
// and market shares have not moved yields the same prompt and reuses the earlier reply.
type CachedGenerator struct {
	next   TextGenerator
	model  string
	cache  *ReplyCache
	logger *logrus.Entry
}

// NewCachedGenerator wraps next with a cache sized by the generator configuration
func NewCachedGenerator(next TextGenerator, cfg *config.GeneratorConfig, logger *logrus.Logger) *CachedGenerator {
	entry := discardLogger()
	if logger != nil {
		entry = logger.WithField("component", "generator_cache")
	}
	return &CachedGenerator{
		next:   next,
		model:  cfg.Model,
		cache:  NewReplyCache(cfg.CacheTTL(), cfg.CacheMaxSize),
		logger: entry,
	}
}

// NewFromConfig builds the chat client, wrapped in a cache when caching is enabled
func NewFromConfig(cfg *config.GeneratorConfig, logger *logrus.Logger) TextGenerator {
	client := NewChatClient(cfg, logger)
	if !cfg.CacheEnabled {
		return client
	}
	return NewCachedGenerator(client, cfg, logger)
}

// Generate returns a cached reply when one exists, otherwise calls the wrapped generator.
// Errors are never cached.
func (g *CachedGenerator) Generate(ctx context.Context, req Request) (string, error) {
	key := CacheKey(g.model, req)

	if reply, ok := g.cache.Get(key); ok {
		g.logger.WithField("cache_key", key[:12]).Debug("Cache hit for generator reply")
		metrics.RecordGeneratorRequest("cache", "hit", 0)
		return reply, nil
	}

	g.logger.WithField("cache_key", key[:12]).Debug("Cache miss, calling generator")
	reply, err := g.next.Generate(ctx, req)
	if err != nil {
		return "", err
	}

	if !g.cache.Set(key, reply) {
		g.logger.Warn("Reply cache full, reply not cached")
	}
	return reply, nil
}

// HealthCheck delegates to the wrapped generator when it supports probing
func (g *CachedGenerator) HealthCheck(ctx context.Context) error {
	if hc, ok := g.next.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// Cache exposes the underlying cache for statistics
func (g *CachedGenerator) Cache() *ReplyCache {
	return g.cache
}
