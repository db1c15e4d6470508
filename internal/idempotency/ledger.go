// Package idempotency remembers the response produced for a caller-supplied
// idempotency key so that retried creations replay it instead of re-running.
// The ledger is best-effort: store failures are logged and reported as misses.
package idempotency

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/cache"
	"github.com/sirupsen/logrus"
)

const DefaultTTL = 24 * time.Hour

type Ledger struct {
	store cache.Store
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewLedger(store cache.Store, ttl time.Duration, log logrus.FieldLogger) *Ledger {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Ledger{store: store, ttl: ttl, log: log}
}

// Lookup returns the stored response for key, if any.
func (l *Ledger) Lookup(ctx context.Context, key string) ([]byte, bool) {
	if strings.TrimSpace(key) == "" {
		return nil, false
	}
	data, err := l.store.Get(ctx, cache.IdempotencyKey(key))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			l.log.WithError(err).WithField("idempotency_key", key).Warn("idempotency lookup failed, continuing without replay")
		}
		return nil, false
	}
	return data, true
}

// Remember stores response under key for the ledger TTL.
func (l *Ledger) Remember(ctx context.Context, key string, response []byte) {
	if strings.TrimSpace(key) == "" {
		return
	}
	if err := l.store.SetWithTTL(ctx, cache.IdempotencyKey(key), response, l.ttl); err != nil {
		l.log.WithError(err).WithField("idempotency_key", key).Warn("failed to store idempotent response")
	}
}
