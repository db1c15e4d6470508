// Package lock grants named, TTL-bound exclusive claims on top of the shared
// key-value store. Holding the key is holding the lock; there is no retry on
// contention.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/cache"
	"github.com/google/uuid"
)

// Lease identifies a granted lock. Token is unique per acquisition and is the
// only value that can release it.
type Lease struct {
	Key   string
	Token string
}

type Coordinator struct {
	store cache.Store
	ttl   time.Duration
}

func NewCoordinator(store cache.Store, ttl time.Duration) *Coordinator {
	return &Coordinator{store: store, ttl: ttl}
}

func (c *Coordinator) TTL() time.Duration {
	return c.ttl
}

// Acquire tries once to claim key. ok is false when another holder owns it.
func (c *Coordinator) Acquire(ctx context.Context, key string) (Lease, bool, error) {
	lease := Lease{Key: key, Token: uuid.NewString()}
	ok, err := c.store.SetIfAbsentWithTTL(ctx, key, []byte(lease.Token), c.ttl)
	if err != nil {
		return Lease{}, false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return Lease{}, false, nil
	}
	return lease, true, nil
}

// Release drops the lease if it is still the current holder. A lease that
// already expired and was re-acquired by someone else is left untouched.
func (c *Coordinator) Release(ctx context.Context, lease Lease) (bool, error) {
	released, err := c.store.CompareAndDelete(ctx, lease.Key, []byte(lease.Token))
	if err != nil {
		return false, fmt.Errorf("release lock %s: %w", lease.Key, err)
	}
	return released, nil
}
