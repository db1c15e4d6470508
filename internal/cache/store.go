package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache: key not found")

// Store is the key-value substrate shared by the booking cache, the
// idempotency ledger and the lock coordinator.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// SetIfAbsentWithTTL is the lock primitive: it reports whether the key was set.
	SetIfAbsentWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	// CompareAndDelete removes key only while it still holds value.
	CompareAndDelete(ctx context.Context, key string, value []byte) (bool, error)
}

func BookingKey(refID string) string {
	return "booking:" + refID
}

func RoutesKey(origin, destination, date string) string {
	return fmt.Sprintf("routes:%s:%s:%s", origin, destination, date)
}

func IdempotencyKey(key string) string {
	return "idempotency:" + key
}

func BookingLockKey(refID string) string {
	return "lock:booking:" + refID
}
