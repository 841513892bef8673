// internal/store/cache_test.go
package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decision-assistant/internal/common/logger"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ResultCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewResultCache(client, ttl, logger.NewTestLogger(t)), mr
}

func TestResultCache_KeyIsStable(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	rec := createTestRecord()

	k1 := c.Key(&rec.Intake)
	k2 := c.Key(&rec.Intake)

	assert.Equal(t, k1, k2)
	assert.Contains(t, k1, "decision:intake:")
}

func TestResultCache_KeyChangesWithIntake(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	rec := createTestRecord()

	k1 := c.Key(&rec.Intake)
	changed := rec.Intake
	changed.TeamSize++
	k2 := c.Key(&changed)

	assert.NotEqual(t, k1, k2)
}

func TestResultCache_GetMiss(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	rec := createTestRecord()

	assert.Nil(t, c.Get(context.Background(), &rec.Intake))
}

func TestResultCache_PutThenGet(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	rec := createTestRecord()

	c.Put(context.Background(), rec)
	got := c.Get(context.Background(), &rec.Intake)

	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Output, got.Output)
}

func TestResultCache_EntryExpires(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	rec := createTestRecord()

	c.Put(context.Background(), rec)
	mr.FastForward(2 * time.Minute)

	assert.Nil(t, c.Get(context.Background(), &rec.Intake))
}

func TestResultCache_CorruptEntryIsAMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	rec := createTestRecord()

	require.NoError(t, mr.Set(c.Key(&rec.Intake), "not json"))

	assert.Nil(t, c.Get(context.Background(), &rec.Intake))
}

func TestResultCache_UnavailableRedisIsAMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	c := NewResultCache(client, time.Minute, logger.NewTestLogger(t))
	rec := createTestRecord()

	mr.Close()

	assert.Nil(t, c.Get(context.Background(), &rec.Intake))
	c.Put(context.Background(), rec) // must not panic
}
