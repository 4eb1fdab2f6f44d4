package resolveApi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/reelcraft/resolve-mcp/pkg/config"
)

// snapshotCache holds recent results of read-only bridge operations.
// Spawning the Python bridge costs hundreds of milliseconds per call, and
// context snapshots are requested repeatedly by the MCP surface; a short
// TTL keeps them cheap without going stale across mutations, because every
// mutating operation invalidates the whole cache.
//
// A nil cache is valid and disables caching entirely.
type snapshotCache struct {
	ttl     time.Duration
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	result    json.RawMessage
	err       error
	expiresAt time.Time
}

func newSnapshotCache(cfg config.CacheConfig, logger *slog.Logger) *snapshotCache {
	if !cfg.Enabled {
		return nil
	}
	return &snapshotCache{
		ttl:     cfg.TTL,
		logger:  logger,
		entries: make(map[string]*cacheEntry),
	}
}

func (c *snapshotCache) Get(op string, params json.RawMessage) (json.RawMessage, error, bool) {
	if c == nil {
		return nil, nil, false
	}

	key := cacheKey(op, params)

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, nil, false
	}

	c.logger.Debug("bridge cache hit", "op", op)
	return entry.result, entry.err, true
}

func (c *snapshotCache) Set(op string, params json.RawMessage, result json.RawMessage, err error) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(op, params)] = &cacheEntry{
		result:    result,
		err:       err,
		expiresAt: time.Now().Add(c.ttl),
	}
}

func (c *snapshotCache) Invalidate() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) > 0 {
		c.logger.Debug("bridge cache invalidated", "entries", len(c.entries))
	}
	c.entries = make(map[string]*cacheEntry)
}

func cacheKey(op string, params json.RawMessage) string {
	hash := sha256.New()
	hash.Write([]byte(op))
	hash.Write([]byte{0})
	hash.Write(params)
	return hex.EncodeToString(hash.Sum(nil))
}
