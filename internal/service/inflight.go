package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"leetcoders.uz/directory/pkg/apperror"
)

const (
	ActionSearch   = "search"
	ActionAddUser  = "add_user"
	inflightPrefix = "inflight:visitor"

	InFlightMessage = "A request is already in progress. Please wait."
)

// releaseScript deletes the lock only while it still holds the caller's token,
// so a holder that outlived the TTL cannot drop a newer holder's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// InflightGuard allows at most one outstanding request per visitor and action.
type InflightGuard interface {
	// Acquire returns apperror.ErrRequestInFlight while another request holds the slot.
	// The returned release func must be called once the request is finished.
	Acquire(ctx context.Context, visitorID uuid.UUID, action string) (release func(), err error)
}

type inflightGuard struct {
	rdb *redis.Client
	ttl time.Duration

	mu    sync.Mutex
	local map[string]struct{}
}

// NewInflightGuard uses Redis when rdb is non-nil, an in-process set otherwise.
// ttl bounds how long a Redis lock survives a crashed holder.
func NewInflightGuard(rdb *redis.Client, ttl time.Duration) InflightGuard {
	return &inflightGuard{
		rdb:   rdb,
		ttl:   ttl,
		local: make(map[string]struct{}),
	}
}

func inflightKey(visitorID uuid.UUID, action string) string {
	return fmt.Sprintf("%s:%s:%s", inflightPrefix, visitorID.String(), action)
}

func (g *inflightGuard) Acquire(ctx context.Context, visitorID uuid.UUID, action string) (func(), error) {
	key := inflightKey(visitorID, action)

	if g.rdb != nil {
		token := uuid.NewString()
		wasSet, err := g.rdb.SetNX(ctx, key, token, g.ttl).Result()
		if err == nil {
			if !wasSet {
				return nil, apperror.ErrRequestInFlight
			}
			var once sync.Once
			return func() {
				once.Do(func() {
					if err := releaseScript.Run(context.Background(), g.rdb, []string{key}, token).Err(); err != nil {
						log.Printf("failed to release in-flight lock %s: %v", key, err)
					}
				})
			}, nil
		}
		log.Printf("failed to check in-flight lock in redis, using local guard: %v", err)
	}

	return g.acquireLocal(key)
}

func (g *inflightGuard) acquireLocal(key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, held := g.local[key]; held {
		return nil, apperror.ErrRequestInFlight
	}
	g.local[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.local, key)
			g.mu.Unlock()
		})
	}, nil
}
