package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingGenerator struct {
	calls int
	reply string
	err   error
}

func (g *countingGenerator) Generate(ctx context.Context, req Request) (string, error) {
	g.calls++
	return g.reply, g.err
}

func TestCacheKey(t *testing.T) {
	req := Request{System: "s", Prompt: "p", Temperature: 0.7, MaxTokens: 300, JSONMode: true}

	key := CacheKey("model-a", req)
	assert.Len(t, key, 64)
	assert.Equal(t, key, CacheKey("model-a", req))
	assert.NotEqual(t, key, CacheKey("model-b", req))

	changed := req
	changed.Prompt = "p2"
	assert.NotEqual(t, key, CacheKey("model-a", changed))

	changed = req
	changed.Temperature = 0.2
	assert.NotEqual(t, key, CacheKey("model-a", changed))
}

func TestReplyCacheGetSet(t *testing.T) {
	rc := NewReplyCache(time.Hour, 10)
	defer rc.Clear()

	_, found := rc.Get("missing")
	assert.False(t, found)

	require.True(t, rc.Set("k", "reply"))
	reply, found := rc.Get("k")
	assert.True(t, found)
	assert.Equal(t, "reply", reply)

	hits, misses, ratio := rc.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-9)
}

func TestReplyCacheMaxSize(t *testing.T) {
	rc := NewReplyCache(time.Hour, 2)

	assert.True(t, rc.Set("a", "1"))
	assert.True(t, rc.Set("b", "2"))
	assert.False(t, rc.Set("c", "3"))
	assert.Equal(t, 2, rc.ItemCount())
}

func TestReplyCacheExpiry(t *testing.T) {
	rc := NewReplyCache(20*time.Millisecond, 10)
	rc.Set("k", "reply")

	time.Sleep(40 * time.Millisecond)

	_, found := rc.Get("k")
	assert.False(t, found)
}

func TestReplyCacheClear(t *testing.T) {
	rc := NewReplyCache(time.Hour, 10)
	rc.Set("k", "reply")
	rc.Get("k")

	rc.Clear()

	assert.Equal(t, 0, rc.ItemCount())
	hits, misses, _ := rc.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestCachedGeneratorReusesReply(t *testing.T) {
	next := &countingGenerator{reply: "cached reply"}
	g := NewCachedGenerator(next, newTestConfig("http://unused"), nil)
	req := Request{Prompt: "same prompt"}

	first, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "cached reply", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)

	_, err = g.Generate(context.Background(), Request{Prompt: "other prompt"})
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedGeneratorDoesNotCacheErrors(t *testing.T) {
	next := &countingGenerator{err: errors.New("boom")}
	g := NewCachedGenerator(next, newTestConfig("http://unused"), nil)
	req := Request{Prompt: "p"}

	_, err := g.Generate(context.Background(), req)
	require.Error(t, err)
	_, err = g.Generate(context.Background(), req)
	require.Error(t, err)

	assert.Equal(t, 2, next.calls)
	assert.Equal(t, 0, g.Cache().ItemCount())
}

func TestCachedGeneratorHealthCheck(t *testing.T) {
	g := NewCachedGenerator(&countingGenerator{}, newTestConfig("http://unused"), nil)
	assert.NoError(t, g.HealthCheck(context.Background()))
}

func TestNewFromConfig(t *testing.T) {
	cfg := newTestConfig("http://unused")

	cfg.CacheEnabled = false
	_, isChat := NewFromConfig(cfg, nil).(*ChatClient)
	assert.True(t, isChat)

	cfg.CacheEnabled = true
	_, isCached := NewFromConfig(cfg, nil).(*CachedGenerator)
	assert.True(t, isCached)
}
