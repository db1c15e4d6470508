package idempotency

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/deeptimaan-k/radiantgo-sub000/internal/cache/cachetest"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStore) SetIfAbsentWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) CompareAndDelete(ctx context.Context, key string, value []byte) (bool, error) {
	args := m.Called(ctx, key, value)
	return args.Bool(0), args.Error(1)
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestLedger_RememberThenLookup(t *testing.T) {
	ledger := NewLedger(cachetest.NewStore(t), 0, quietLogger())
	ctx := context.Background()

	_, ok := ledger.Lookup(ctx, "req-1")
	assert.False(t, ok)

	ledger.Remember(ctx, "req-1", []byte(`{"ref_id":"RGAAAA0001"}`))

	data, ok := ledger.Lookup(ctx, "req-1")
	require.True(t, ok)
	assert.JSONEq(t, `{"ref_id":"RGAAAA0001"}`, string(data))
}

func TestLedger_UsesKeyFormatAndTTL(t *testing.T) {
	store := &MockStore{}
	ledger := NewLedger(store, 0, quietLogger())
	ctx := context.Background()

	store.On("SetWithTTL", ctx, "idempotency:req-1", []byte("x"), 24*time.Hour).Return(nil).Once()

	ledger.Remember(ctx, "req-1", []byte("x"))

	store.AssertExpectations(t)
}

func TestLedger_StoreFailuresAreSwallowed(t *testing.T) {
	store := &MockStore{}
	ledger := NewLedger(store, time.Hour, quietLogger())
	ctx := context.Background()

	store.On("Get", ctx, "idempotency:req-1").Return(nil, errors.New("redis down")).Once()
	store.On("SetWithTTL", ctx, "idempotency:req-1", []byte("x"), time.Hour).Return(errors.New("redis down")).Once()

	_, ok := ledger.Lookup(ctx, "req-1")
	assert.False(t, ok)
	ledger.Remember(ctx, "req-1", []byte("x"))

	store.AssertExpectations(t)
}

func TestLedger_BlankKeyIsIgnored(t *testing.T) {
	store := &MockStore{}
	ledger := NewLedger(store, time.Hour, quietLogger())

	_, ok := ledger.Lookup(context.Background(), "  ")
	assert.False(t, ok)
	ledger.Remember(context.Background(), "", []byte("x"))

	store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "SetWithTTL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
