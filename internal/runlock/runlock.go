// Package runlock guards the single-run assumption of the migration engine:
// only one pipeline run may be active against the target store at a time.
// The lock is a Redis SET NX key with a TTL so that a crashed run cannot
// hold the store hostage forever. When Redis is not configured the lock
// degrades to a no-op, matching how the rest of the application treats an
// absent Redis.
package runlock

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockKey = "warranty:migration:lock"

// ErrHeld is returned when another run currently holds the lock.
var ErrHeld = errors.New("another migration run is in progress")

// redisClient is the slice of go-redis the lock needs.
type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	redis.Scripter
}

type Lock struct {
	client redisClient
	ttl    time.Duration
}

// New builds a Lock over the given client, which may be nil.
func New(client *redis.Client, ttl time.Duration) *Lock {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	l := &Lock{ttl: ttl}
	if client != nil {
		l.client = client
	}
	return l
}

// Acquire takes the lock for this run id, failing with ErrHeld when a
// different run owns it.
func (l *Lock) Acquire(ctx context.Context, runID string) error {
	if l.client == nil {
		return nil
	}
	ok, err := l.client.SetNX(ctx, lockKey, runID, l.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrHeld
	}
	return nil
}

// releaseScript deletes the lock only while this run still owns it. The
// check and the delete must be one atomic step: a GET followed by a DEL
// could remove a lock another run acquired after our TTL expired.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

// Release drops the lock if this run still owns it. A lock taken over by
// another run (e.g. after TTL expiry) is left alone.
func (l *Lock) Release(ctx context.Context, runID string) error {
	if l.client == nil {
		return nil
	}
	return releaseScript.Run(ctx, l.client, []string{lockKey}, runID).Err()
}
