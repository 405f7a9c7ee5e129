package usage

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewlens/internal/db"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/params"
)

// --- Mocks ---

type mockStore struct {
	counters  map[string]int64
	ttls      map[string]time.Duration
	incrErr   error
	expireErr error
	getErr    error
}

func newMockStore() *mockStore {
	return &mockStore{counters: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	n, ok := m.counters[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return []byte(strconv.FormatInt(n, 10)), nil
}

func (m *mockStore) IncrBy(_ context.Context, key string, val int64) (int64, error) {
	if m.incrErr != nil {
		return 0, m.incrErr
	}
	m.counters[key] += val
	return m.counters[key], nil
}

func (m *mockStore) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	if m.expireErr != nil {
		return m.expireErr
	}
	if _, set := m.ttls[key]; nx && set {
		return nil
	}
	m.ttls[key] = ttl
	return nil
}

type mockQuerier struct {
	calls int
	err   error
}

func (m *mockQuerier) Query(_ context.Context, _ params.Params) ([]byte, error) {
	m.calls++
	return []byte(`{}`), m.err
}

func fixedService(store Store, now time.Time) *Service {
	s := New(store, "rl:")
	s.now = func() time.Time { return now }
	return s
}

// --- Tests ---

func TestRecord_IncrementsMonthCounter(t *testing.T) {
	store := newMockStore()
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	svc := fixedService(store, now)

	for range 3 {
		if err := svc.Record(context.Background()); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	if got := store.counters["rl:usage:2026-10"]; got != 3 {
		t.Errorf("expected counter 3, got %d", got)
	}
	wantTTL := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC).Sub(now) + counterGrace
	if got := store.ttls["rl:usage:2026-10"]; got != wantTTL {
		t.Errorf("expected ttl %v, got %v", wantTTL, got)
	}
}

func TestRecord_StoreError(t *testing.T) {
	store := newMockStore()
	store.incrErr = errors.New("conn refused")
	svc := fixedService(store, time.Now())

	if err := svc.Record(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRecord_NilStore(t *testing.T) {
	svc := New(nil, "rl:")
	if err := svc.Record(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	r, err := svc.Report(context.Background())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if r.Tracked || r.Queries != 0 {
		t.Errorf("expected untracked zero report, got %+v", r)
	}
}

func TestReport_CurrentMonth(t *testing.T) {
	store := newMockStore()
	store.counters["rl:usage:2026-02"] = 42
	now := time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC)
	svc := fixedService(store, now)

	r, err := svc.Report(context.Background())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if r.Period != "2026-02" {
		t.Errorf("expected period 2026-02, got %q", r.Period)
	}
	if r.Queries != 42 || !r.Tracked {
		t.Errorf("unexpected report: %+v", r)
	}
	if r.PeriodStart != time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC).UnixMilli() {
		t.Errorf("unexpected period start %d", r.PeriodStart)
	}
	if r.PeriodEnd != time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).UnixMilli() {
		t.Errorf("unexpected period end %d", r.PeriodEnd)
	}
}

func TestReport_NoQueriesYet(t *testing.T) {
	svc := fixedService(newMockStore(), time.Now())
	r, err := svc.Report(context.Background())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if r.Queries != 0 || !r.Tracked {
		t.Errorf("unexpected report: %+v", r)
	}
}

func TestReport_StoreError(t *testing.T) {
	store := newMockStore()
	store.getErr = errors.New("timeout")
	svc := fixedService(store, time.Now())
	if _, err := svc.Report(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestCountingQuerier(t *testing.T) {
	store := newMockStore()
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	inner := &mockQuerier{}
	q := NewCountingQuerier(inner, fixedService(store, now), zap.NewNop())

	if _, err := q.Query(context.Background(), params.Params{}); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
	if store.counters["rl:usage:2026-10"] != 1 {
		t.Errorf("expected counter 1, got %d", store.counters["rl:usage:2026-10"])
	}
}

func TestCountingQuerier_CounterFailureIgnored(t *testing.T) {
	store := newMockStore()
	store.incrErr = errors.New("down")
	inner := &mockQuerier{}
	q := NewCountingQuerier(inner, fixedService(store, time.Now()), zap.NewNop())

	if _, err := q.Query(context.Background(), params.Params{}); err != nil {
		t.Fatalf("Query: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
}
