package usage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewlens/internal/domain"
)

// BudgetAction defines behavior when the monthly query budget is used up.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the query.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject fails the query without calling upstream.
	BudgetActionReject BudgetAction = "reject"
)

// IsValid checks if the action is known.
func (a BudgetAction) IsValid() bool {
	return a == BudgetActionWarn || a == BudgetActionReject
}

// Budget caps upstream queries per calendar month (UTC).
// Reserve is in-memory only; the persisted counter is read once by Load.
type Budget struct {
	mu        sync.Mutex
	used      int64
	limit     int64
	action    BudgetAction
	lastReset time.Time
	now       func() time.Time
	logger    *zap.Logger
}

// NewBudget creates a budget. A zero limit means unlimited.
func NewBudget(limit int64, action BudgetAction, logger *zap.Logger) *Budget {
	b := &Budget{limit: limit, action: action, now: time.Now, logger: logger}
	b.lastReset = monthStart(b.now())
	return b
}

// Load seeds the in-memory counter from the persisted monthly count.
func (b *Budget) Load(ctx context.Context, svc *Service) {
	r, err := svc.Report(ctx)
	if err != nil {
		b.logger.Warn("Failed to load query budget from store", zap.Error(err))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.used = r.Queries
	b.logger.Info("Query budget loaded",
		zap.Int64("used", b.used),
		zap.Int64("limit", b.limit),
	)
}

// Reserve takes one query from the budget. Over the limit, a reject budget
// returns ErrQuotaExceeded and takes nothing; a warn budget logs and takes
// the query anyway.
func (b *Budget) Reserve(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNeeded()
	if b.limit > 0 && b.used >= b.limit {
		if b.action == BudgetActionReject {
			return fmt.Errorf("monthly budget of %d queries used: %w", b.limit, domain.ErrQuotaExceeded)
		}
		b.logger.Warn("Query budget exceeded",
			zap.Int64("used", b.used),
			zap.Int64("limit", b.limit),
		)
	}
	b.used++
	return nil
}

// Remaining returns queries left this month (-1 if unlimited).
func (b *Budget) Remaining() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.resetIfNeeded()
	if b.limit <= 0 {
		return -1
	}
	return max(b.limit-b.used, 0)
}

// Limit returns the monthly query cap.
func (b *Budget) Limit() int64 { return b.limit }

func (b *Budget) resetIfNeeded() {
	if m := monthStart(b.now()); m.After(b.lastReset) {
		b.used = 0
		b.lastReset = m
	}
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
