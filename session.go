package reviewlens

import (
	"context"
	"sync/atomic"
)

// Session serializes the searches of one interactive caller. Each call
// takes a ticket; a response whose ticket was superseded by a later call is
// discarded with ErrStaleResponse, so results of an older search never
// replace those of a newer one. Use one Session per independently updated
// result panel.
type Session struct {
	client *Client
	latest atomic.Uint64
}

// NewSession creates a session bound to the client.
func (c *Client) NewSession() *Session {
	return &Session{client: c}
}

// Search runs b and returns its view unless a newer call has started.
func (s *Session) Search(ctx context.Context, b *SearchBuilder) (View, error) {
	return guard(s, func() (View, error) { return b.Do(ctx) })
}

// CommonQuery runs a canned query unless a newer call has started.
func (s *Session) CommonQuery(ctx context.Context, t QueryType, category string) (View, error) {
	return guard(s, func() (View, error) { return s.client.CommonQuery(ctx, t, category) })
}

// CustomQuery runs a raw keyword query unless a newer call has started.
func (s *Session) CustomQuery(ctx context.Context, query string, count int, sortBy string) ([]byte, error) {
	return guard(s, func() ([]byte, error) { return s.client.CustomQuery(ctx, query, count, sortBy) })
}

func guard[T any](s *Session, fn func() (T, error)) (T, error) {
	ticket := s.latest.Add(1)
	v, err := fn()
	if s.latest.Load() != ticket {
		var zero T
		return zero, ErrStaleResponse
	}
	return v, err
}
