package respcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewlens/internal/db"
	"github.com/kailas-cloud/reviewlens/internal/domain"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/params"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/request"
)

type mockQuerier struct {
	data  []byte
	err   error
	calls int
}

func (m *mockQuerier) Query(_ context.Context, _ params.Params) ([]byte, error) {
	m.calls++
	return m.data, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedQuerier(t *testing.T, inner *mockQuerier) (*CachedQuerier, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cq := New(inner, ms, Config{KeyPrefix: "test:", TTL: time.Minute}, nil, zap.NewNop())
	return cq, ms
}

func makeParams(t *testing.T, query string) params.Params {
	t.Helper()
	tgt, err := domain.NewV1Target("env", "col")
	if err != nil {
		t.Fatalf("NewV1Target: %v", err)
	}
	r, err := request.New(query, false, "", 10, "-Score", false)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return params.Build(tgt, request.Full, r)
}
