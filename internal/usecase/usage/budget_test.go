package usage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewlens/internal/domain"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/params"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/request"
	"github.com/kailas-cloud/reviewlens/internal/transport/discovery"
)

func fixedBudget(limit int64, action BudgetAction, now *time.Time) *Budget {
	b := NewBudget(limit, action, zap.NewNop())
	b.now = func() time.Time { return *now }
	b.lastReset = monthStart(*now)
	return b
}

func TestBudget_Unlimited(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	b := fixedBudget(0, BudgetActionReject, &now)
	for range 5 {
		if err := b.Reserve(context.Background()); err != nil {
			t.Fatalf("unlimited budget should never reject: %v", err)
		}
	}
	if b.Remaining() != -1 {
		t.Errorf("Remaining() = %d, want -1", b.Remaining())
	}
}

func TestBudget_Reject(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	b := fixedBudget(2, BudgetActionReject, &now)

	for range 2 {
		if err := b.Reserve(context.Background()); err != nil {
			t.Fatalf("Reserve: %v", err)
		}
	}
	err := b.Reserve(context.Background())
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if b.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", b.Remaining())
	}
}

func TestBudget_RejectUnderConcurrency(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	b := fixedBudget(10, BudgetActionReject, &now)

	var granted atomic.Int32
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if b.Reserve(context.Background()) == nil {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	if n := granted.Load(); n != 10 {
		t.Errorf("granted = %d, want exactly the limit of 10", n)
	}
}

func TestBudget_Warn(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	b := fixedBudget(1, BudgetActionWarn, &now)
	for range 3 {
		if err := b.Reserve(context.Background()); err != nil {
			t.Fatalf("warn action should allow the query: %v", err)
		}
	}
	if b.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0", b.Remaining())
	}
}

func TestBudget_MonthRollover(t *testing.T) {
	now := time.Date(2026, 10, 31, 23, 0, 0, 0, time.UTC)
	b := fixedBudget(1, BudgetActionReject, &now)
	if err := b.Reserve(context.Background()); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if err := b.Reserve(context.Background()); err == nil {
		t.Fatal("expected rejection before rollover")
	}

	now = time.Date(2026, 11, 1, 0, 0, 1, 0, time.UTC)
	if b.Remaining() != 1 {
		t.Errorf("Remaining() = %d, want 1 after rollover", b.Remaining())
	}
	if err := b.Reserve(context.Background()); err != nil {
		t.Fatalf("expected reset after rollover: %v", err)
	}
}

func TestBudget_Load(t *testing.T) {
	store := newMockStore()
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	store.counters["rl:usage:2026-10"] = 7

	b := fixedBudget(10, BudgetActionReject, &now)
	b.Load(context.Background(), fixedService(store, now))
	if b.Remaining() != 3 {
		t.Errorf("Remaining() = %d, want 3", b.Remaining())
	}
}

func TestBudget_LoadStoreError(t *testing.T) {
	store := newMockStore()
	store.getErr = errors.New("down")
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	b := fixedBudget(10, BudgetActionReject, &now)
	b.Load(context.Background(), fixedService(store, now))
	if b.Remaining() != 10 {
		t.Errorf("Remaining() = %d, want 10", b.Remaining())
	}
}

func TestBudgetAction_IsValid(t *testing.T) {
	if !BudgetActionWarn.IsValid() || !BudgetActionReject.IsValid() {
		t.Error("known actions should be valid")
	}
	if BudgetAction("drop").IsValid() {
		t.Error("unknown action should be invalid")
	}
}

func TestCountingQuerier_BudgetRejects(t *testing.T) {
	store := newMockStore()
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	inner := &mockQuerier{}
	q := NewCountingQuerier(inner, fixedService(store, now), zap.NewNop()).
		WithBudget(fixedBudget(1, BudgetActionReject, &now))

	if _, err := q.Query(context.Background(), params.Params{}); err != nil {
		t.Fatalf("first query: %v", err)
	}
	_, err := q.Query(context.Background(), params.Params{})
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("rejected query must not reach upstream, got %d calls", inner.calls)
	}
	if store.counters["rl:usage:2026-10"] != 1 {
		t.Errorf("rejected query must not be counted, got %d", store.counters["rl:usage:2026-10"])
	}
}

// blockingQuerier answers once release is closed.
type blockingQuerier struct {
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (b *blockingQuerier) Query(_ context.Context, _ params.Params) ([]byte, error) {
	b.calls.Add(1)
	b.entered <- struct{}{}
	<-b.release
	return []byte(`{}`), nil
}

func TestCountingQuerier_SharedCallersCountedOnce(t *testing.T) {
	store := newMockStore()
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	inner := &blockingQuerier{entered: make(chan struct{}, 8), release: make(chan struct{})}
	budget := fixedBudget(100, BudgetActionReject, &now)
	counting := NewCountingQuerier(inner, fixedService(store, now), zap.NewNop()).WithBudget(budget)
	shared := discovery.NewSharedQuerier(counting, time.Second)

	tgt, _ := domain.NewV1Target("env", "col")
	req, err := request.New("coffee", false, "", 10, "", false)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	p := params.Build(tgt, request.Full, req)

	const callers = 4
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := shared.Query(context.Background(), p)
			errs <- err
		}()
	}
	<-inner.entered
	// Let every caller join the in-flight query before answering.
	time.Sleep(100 * time.Millisecond)
	close(inner.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
	}
	if n := inner.calls.Load(); n != 1 {
		t.Fatalf("upstream calls = %d, want 1", n)
	}
	if got := store.counters["rl:usage:2026-10"]; got != 1 {
		t.Errorf("usage counter = %d, want 1 for one shared upstream call", got)
	}
	if budget.Remaining() != 99 {
		t.Errorf("Remaining() = %d, want 99", budget.Remaining())
	}
}
