package synth

import (
	"context"
	"log/slog"
	"sync/atomic"

	"subspeak/internal/logging"
	"subspeak/internal/synthcache"
)

// cacheStore is the subset of synthcache.Store used by Cached.
type cacheStore interface {
	Get(ctx context.Context, key synthcache.Key) ([]byte, bool, error)
	Put(ctx context.Context, key synthcache.Key, audio []byte) error
}

// Cached consults the synthesis cache before delegating to the wrapped
// provider. Cache failures degrade to a miss; they never fail the call.
type Cached struct {
	next     Synthesizer
	store    cacheStore
	provider string
	logger   *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCached wraps next. provider is folded into the cache key so results
// from different services never collide.
func NewCached(next Synthesizer, store cacheStore, provider string, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cached{
		next:     next,
		store:    store,
		provider: provider,
		logger:   logging.NewComponentLogger(logger, "synthcache"),
	}
}

// Hits returns the number of requests answered from the cache.
func (c *Cached) Hits() int64 { return c.hits.Load() }

// Misses returns the number of requests forwarded to the provider.
func (c *Cached) Misses() int64 { return c.misses.Load() }

// Synthesize returns cached audio when present, otherwise synthesizes and stores it.
func (c *Cached) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	key := synthcache.Key{
		Provider:   c.provider,
		Voice:      req.Voice,
		Engine:     req.Engine,
		Codec:      req.Codec,
		SampleRate: req.SampleRate,
		Text:       req.Text,
	}
	logger := logging.WithContext(ctx, c.logger)

	data, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		logger.Warn("synthesis cache read failed",
			logging.String(logging.FieldEventType, "synthcache_read_failed"),
			logging.Error(err),
			logging.String(logging.FieldImpact, "cue will be synthesized again"),
		)
	case ok && len(data) > 0:
		c.hits.Add(1)
		logger.Debug("synthesis cache hit", logging.Int("bytes", len(data)))
		return data, nil
	}

	c.misses.Add(1)
	data, err = c.next.Synthesize(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := c.store.Put(ctx, key, data); err != nil {
		logger.Warn("synthesis cache write failed",
			logging.String(logging.FieldEventType, "synthcache_write_failed"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run 'subspeak check' to verify the cache database"),
		)
	}
	return data, nil
}
