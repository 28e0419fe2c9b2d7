package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// Guard serializes passes across dispatcher instances.
type Guard interface {
	// Acquire takes the lease and returns its release func. It returns
	// ErrPassInProgress when another holder has it.
	Acquire(ctx context.Context) (func(), error)
}

// RedisLease implements Guard with a redislock lease, so two dispatcher
// deployments never run a pass against the same candidate set.
type RedisLease struct {
	locker *redislock.Client
	key    string
	ttl    time.Duration
}

// NewRedisLease builds a lease keyed by the dispatcher name.
func NewRedisLease(client *redis.Client, name string, ttl time.Duration) *RedisLease {
	return &RedisLease{
		locker: redislock.New(client),
		key:    "lease:" + name,
		ttl:    ttl,
	}
}

// Acquire obtains the lease.
func (l *RedisLease) Acquire(ctx context.Context) (func(), error) {
	lock, err := l.locker.Obtain(ctx, l.key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrPassInProgress
	}
	if err != nil {
		return nil, err
	}
	release := func() {
		_ = lock.Release(context.Background())
	}
	return release, nil
}
