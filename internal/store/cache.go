// internal/store/cache.go
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"decision-assistant/internal/common/logger"
	"decision-assistant/internal/models"

	"github.com/redis/go-redis/v9"
)

// ResultCache short-circuits evaluation for identical intakes. Keys are
// a content hash of the intake, so resubmitting the same form within the
// TTL returns the stored record instead of a new evaluation.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewResultCache(client *redis.Client, ttl time.Duration, log logger.Logger) *ResultCache {
	return &ResultCache{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "result-cache"}),
	}
}

// Key derives the cache key from the intake contents.
func (c *ResultCache) Key(p *models.ProjectIntake) string {
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)
	return "decision:intake:" + hex.EncodeToString(sum[:16])
}

// Get returns the cached record for an intake, or nil on a miss. Cache
// errors are logged and treated as misses.
func (c *ResultCache) Get(ctx context.Context, p *models.ProjectIntake) *models.DecisionRecord {
	val, err := c.client.Get(ctx, c.Key(p)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}

	var rec models.DecisionRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		c.logger.Warn("cache entry corrupt, ignoring", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return &rec
}

// Put stores a record under its intake hash. Failures are logged, never
// surfaced: the cache is an optimization.
func (c *ResultCache) Put(ctx context.Context, rec *models.DecisionRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.Key(&rec.Intake), data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", map[string]interface{}{"error": err.Error()})
	}
}
