// Package cachetest runs a RedisStore against an in-process miniredis server.
package cachetest

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/deeptimaan-k/radiantgo-sub000/internal/cache"
	"github.com/redis/go-redis/v9"
)

// Run starts a miniredis server for the lifetime of t. The server is returned
// so tests can inspect keys or move its clock with FastForward.
func Run(t testing.TB) (*cache.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisStoreFromClient(client), srv
}

func NewStore(t testing.TB) *cache.RedisStore {
	t.Helper()
	store, _ := Run(t)
	return store
}
