package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"leetcoders.uz/directory/pkg/apperror"
)

func TestInflightGuard_Local_SingleSlotPerVisitorAndAction(t *testing.T) {
	g := NewInflightGuard(nil, time.Second)
	ctx := context.Background()
	visitor := uuid.New()

	release, err := g.Acquire(ctx, visitor, ActionSearch)
	require.NoError(t, err)

	_, err = g.Acquire(ctx, visitor, ActionSearch)
	assert.ErrorIs(t, err, apperror.ErrRequestInFlight)

	// other action and other visitor are independent
	releaseAdd, err := g.Acquire(ctx, visitor, ActionAddUser)
	require.NoError(t, err)
	releaseAdd()

	releaseOther, err := g.Acquire(ctx, uuid.New(), ActionSearch)
	require.NoError(t, err)
	releaseOther()

	release()
	release() // idempotent

	release2, err := g.Acquire(ctx, visitor, ActionSearch)
	require.NoError(t, err)
	release2()
}

func TestInflightGuard_Local_Concurrent(t *testing.T) {
	g := NewInflightGuard(nil, time.Second)
	visitor := uuid.New()

	var acquired atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	releases := make(chan func(), 16)

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if release, err := g.Acquire(context.Background(), visitor, ActionSearch); err == nil {
				acquired.Add(1)
				releases <- release
			}
		}()
	}
	close(start)
	wg.Wait()
	close(releases)

	assert.Equal(t, int32(1), acquired.Load())
	for r := range releases {
		r()
	}
}

func TestInflightGuard_RedisUnavailableFallsBackToLocal(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	g := NewInflightGuard(rdb, time.Second)
	visitor := uuid.New()

	release, err := g.Acquire(context.Background(), visitor, ActionAddUser)
	require.NoError(t, err)

	_, err = g.Acquire(context.Background(), visitor, ActionAddUser)
	assert.ErrorIs(t, err, apperror.ErrRequestInFlight)
	release()
}

func setupRedisGuard(t *testing.T, ttl time.Duration) (InflightGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewInflightGuard(rdb, ttl), mr
}

func TestInflightGuard_Redis_SingleSlot(t *testing.T) {
	g, mr := setupRedisGuard(t, 30*time.Second)
	ctx := context.Background()
	visitor := uuid.New()
	key := inflightKey(visitor, ActionSearch)

	release, err := g.Acquire(ctx, visitor, ActionSearch)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 30*time.Second, mr.TTL(key))

	_, err = g.Acquire(ctx, visitor, ActionSearch)
	assert.ErrorIs(t, err, apperror.ErrRequestInFlight)

	release()
	assert.False(t, mr.Exists(key))

	release2, err := g.Acquire(ctx, visitor, ActionSearch)
	require.NoError(t, err)
	release2()
}

func TestInflightGuard_Redis_ExpiredHolderKeepsNewerLock(t *testing.T) {
	g, mr := setupRedisGuard(t, time.Second)
	ctx := context.Background()
	visitor := uuid.New()
	key := inflightKey(visitor, ActionSearch)

	releaseA, err := g.Acquire(ctx, visitor, ActionSearch)
	require.NoError(t, err)

	// A outlives the TTL; B takes the slot
	mr.FastForward(2 * time.Second)
	releaseB, err := g.Acquire(ctx, visitor, ActionSearch)
	require.NoError(t, err)

	releaseA()
	assert.True(t, mr.Exists(key), "late release must not drop B's lock")

	_, err = g.Acquire(ctx, visitor, ActionSearch)
	assert.ErrorIs(t, err, apperror.ErrRequestInFlight)

	releaseB()
	assert.False(t, mr.Exists(key))
}

func TestInflightKey(t *testing.T) {
	id := uuid.MustParse("6f1c1c8e-5a3e-4a59-9f53-0d5b8f1d2a10")
	assert.Equal(t, "inflight:visitor:6f1c1c8e-5a3e-4a59-9f53-0d5b8f1d2a10:search", inflightKey(id, ActionSearch))
}
