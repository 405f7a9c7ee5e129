package reviewlens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewlens/internal/db"
	dbRedis "github.com/kailas-cloud/reviewlens/internal/db/redis"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/canned"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/request"
	"github.com/kailas-cloud/reviewlens/internal/metrics"
	"github.com/kailas-cloud/reviewlens/internal/repository/respcache"
	"github.com/kailas-cloud/reviewlens/internal/transport/discovery"
	healthuc "github.com/kailas-cloud/reviewlens/internal/usecase/health"
	searchuc "github.com/kailas-cloud/reviewlens/internal/usecase/search"
	usageuc "github.com/kailas-cloud/reviewlens/internal/usecase/usage"
)

// Defaults applied by New.
const (
	defaultBaseURL          = "https://api.us-south.discovery.watson.cloud.ibm.com"
	defaultVersionDate      = "2020-11-11"
	defaultTimeout          = 20 * time.Second
	defaultCacheTTL         = 5 * time.Minute
	defaultKeyPrefix        = "reviewlens:"
	defaultReadinessTimeout = 10 * time.Second
)

// Internal interfaces, replaced by mocks in tests.
type searchUseCase interface {
	Raw(ctx context.Context, v request.Variant, req request.Request) ([]byte, error)
	View(ctx context.Context, v request.Variant, req request.Request, page int) (searchuc.View, error)
	Common(ctx context.Context, t canned.QueryType, category string, page int) (searchuc.View, error)
	Startup(ctx context.Context, page int) (searchuc.View, error)
	VanitySearch(ctx context.Context, path string, page int) (searchuc.View, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

type usageUseCase interface {
	Report(ctx context.Context) (usageuc.Report, error)
}

// Client is the reviewlens SDK entry point.
type Client struct {
	store     db.Store
	searchSvc searchUseCase
	healthSvc healthUseCase
	usageSvc  usageUseCase
	obs       *observer
}

// New creates a Client. An API key and a target (WithEnvironment or
// WithProject) are required. With WithRedisCache the provided context
// bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL:     defaultBaseURL,
		versionDate: defaultVersionDate,
		timeout:     defaultTimeout,
		cacheTTL:    defaultCacheTTL,
		keyPrefix:   defaultKeyPrefix,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.apiKey == "" {
		return nil, errors.New("reviewlens: API key required (use WithAPIKey)")
	}
	target, err := cfg.target()
	if err != nil {
		return nil, fmt.Errorf("reviewlens: %w (use WithEnvironment or WithProject)", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store db.Store
	if len(cfg.cacheAddrs) > 0 {
		rs, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.cacheAddrs,
			Password: cfg.cachePassword,
		})
		if err != nil {
			return nil, fmt.Errorf("reviewlens: create redis store: %w", err)
		}
		if err := rs.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			rs.Close()
			return nil, fmt.Errorf("reviewlens: cache not ready: %w", err)
		}
		store = rs
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	client := discovery.NewClient(&discovery.Config{
		BaseURL:     cfg.baseURL,
		APIKey:      cfg.apiKey,
		VersionDate: cfg.versionDate,
		Timeout:     cfg.timeout,
		HTTPClient:  cfg.httpClient,
		Logger:      logger,
	})

	var usageStore usageuc.Store
	var cachePinger healthuc.CachePinger
	if store != nil {
		usageStore = store
		cachePinger = store
	}
	usageSvc := usageuc.New(usageStore, cfg.keyPrefix)

	counting := usageuc.NewCountingQuerier(client, usageSvc, logger)
	if cfg.monthlyLimit > 0 {
		action := usageuc.BudgetActionWarn
		if cfg.rejectOver {
			action = usageuc.BudgetActionReject
		}
		budget := usageuc.NewBudget(cfg.monthlyLimit, action, logger)
		budget.Load(ctx, usageSvc)
		counting.WithBudget(budget)
	}

	var querier searchuc.Querier = discovery.NewSharedQuerier(counting, cfg.timeout)
	if store != nil {
		querier = respcache.New(querier, store, respcache.Config{
			KeyPrefix: cfg.keyPrefix,
			TTL:       cfg.cacheTTL,
		}, metrics.ResponseCacheTotal, logger)
	}

	return &Client{
		store:     store,
		searchSvc: searchuc.New(target, querier, logger),
		healthSvc: healthuc.New(cachePinger, client, target),
		usageSvc:  usageSvc,
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Search starts a full search.
func (c *Client) Search() *SearchBuilder {
	return newSearchBuilder(c, request.Full)
}

// Custom starts a custom-panel search: facet aggregations only, no passages.
func (c *Client) Custom() *SearchBuilder {
	return newSearchBuilder(c, request.Custom)
}

// CustomQuery runs a raw keyword query and returns the upstream JSON
// wrapped as {"result": ...}.
func (c *Client) CustomQuery(ctx context.Context, query string, count int, sortBy string) (body []byte, err error) {
	start := time.Now()
	defer func() { c.obs.observe("custom_query", start, err) }()

	req, err := request.New(query, false, "", count, sortBy, false)
	if err != nil {
		return nil, fmt.Errorf("custom query: %w: %w", ErrInvalidRequest, err)
	}
	body, err = c.searchSvc.Raw(ctx, request.Custom, req)
	if err != nil {
		return nil, fmt.Errorf("custom query: %w", err)
	}
	return body, nil
}

// CommonQuery runs a canned query for a category. The "Select Category"
// sentinel yields an empty view without an upstream call.
func (c *Client) CommonQuery(ctx context.Context, t QueryType, category string) (v View, err error) {
	start := time.Now()
	defer func() { c.obs.observe("common_query", start, err) }()

	v, err = c.searchSvc.Common(ctx, t, category, 1)
	if err != nil {
		return View{}, fmt.Errorf("common query: %w", err)
	}
	return v, nil
}

// Startup runs the initial natural-language query with empty text.
func (c *Client) Startup(ctx context.Context) (v View, err error) {
	start := time.Now()
	defer func() { c.obs.observe("startup", start, err) }()

	v, err = c.searchSvc.Startup(ctx, 1)
	if err != nil {
		return View{}, fmt.Errorf("startup: %w", err)
	}
	return v, nil
}

// Health reports whether the search service and cache answer.
func (c *Client) Health(ctx context.Context) (healthy bool, checks map[string]string) {
	start := time.Now()
	report := c.healthSvc.Check(ctx)

	checks = make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	healthy = report.Status != healthuc.Unhealthy

	var err error
	if !healthy {
		err = errors.New("upstream unreachable")
	}
	c.obs.observe("health", start, err)
	return healthy, checks
}

// Usage returns the current month's upstream query count. Without a
// cache the count is not tracked.
func (c *Client) Usage(ctx context.Context) (r UsageReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, err) }()

	r, err = c.usageSvc.Report(ctx)
	if err != nil {
		return UsageReport{}, fmt.Errorf("usage: %w", err)
	}
	return r, nil
}
