package usage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/reviewlens/internal/db"
)

// counterGrace keeps a month's counter readable for a day after the month ends.
const counterGrace = 24 * time.Hour

// Report is the upstream query count for the current calendar month (UTC).
type Report struct {
	Period      string `json:"period"`
	PeriodStart int64  `json:"period_start"`
	PeriodEnd   int64  `json:"period_end"`
	Queries     int64  `json:"queries"`
	Tracked     bool   `json:"tracked"`
}

// Service counts upstream queries per month.
type Service struct {
	store  Store
	prefix string
	now    func() time.Time
}

// New creates a Service. store can be nil, in which case nothing is counted.
func New(store Store, keyPrefix string) *Service {
	return &Service{store: store, prefix: keyPrefix + "usage:", now: time.Now}
}

// Record adds one query to the current month.
func (s *Service) Record(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	start, end := s.month()
	key := s.key(start)
	if _, err := s.store.IncrBy(ctx, key, 1); err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	ttl := end.Sub(s.now().UTC()) + counterGrace
	if err := s.store.Expire(ctx, key, ttl, true); err != nil {
		return fmt.Errorf("expire usage: %w", err)
	}
	return nil
}

// Report returns the current month's query count.
func (s *Service) Report(ctx context.Context) (Report, error) {
	start, end := s.month()
	r := Report{
		Period:      start.Format("2006-01"),
		PeriodStart: start.UnixMilli(),
		PeriodEnd:   end.UnixMilli(),
	}
	if s.store == nil {
		return r, nil
	}
	r.Tracked = true

	data, err := s.store.Get(ctx, s.key(start))
	if errors.Is(err, db.ErrKeyNotFound) {
		return r, nil
	}
	if err != nil {
		return Report{}, fmt.Errorf("get usage: %w", err)
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return Report{}, fmt.Errorf("parse usage: %w", err)
	}
	r.Queries = n
	return r, nil
}

func (s *Service) month() (time.Time, time.Time) {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func (s *Service) key(start time.Time) string {
	return s.prefix + start.Format("2006-01")
}
