package reviewlens

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewlens/internal/domain"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	apiKey      string
	baseURL     string
	versionDate string
	timeout     time.Duration
	httpClient  *http.Client

	apiVersion    domain.APIVersion
	environmentID string
	collectionID  string
	projectID     string
	collectionIDs []string

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration
	keyPrefix     string

	monthlyLimit int64
	rejectOver   bool

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithAPIKey sets the service API key. Required.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = key
	})
}

// WithBaseURL overrides the service endpoint.
func WithBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = url
	})
}

// WithVersionDate sets the API version date sent with every request.
// Default: 2020-11-11.
func WithVersionDate(date string) Option {
	return optionFunc(func(c *clientConfig) {
		c.versionDate = date
	})
}

// WithTimeout sets the per-request timeout. Default: 20s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithHTTPClient replaces the HTTP client used for upstream calls.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithEnvironment targets a v1 environment and collection.
func WithEnvironment(environmentID, collectionID string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiVersion = domain.V1
		c.environmentID = environmentID
		c.collectionID = collectionID
	})
}

// WithProject targets a v2 project and its collections.
func WithProject(projectID string, collectionIDs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiVersion = domain.V2
		c.projectID = projectID
		c.collectionIDs = collectionIDs
	})
}

// WithRedisCache caches upstream responses in Redis for ttl and enables the
// monthly query counter.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithKeyPrefix sets the Redis key prefix. Default: "reviewlens:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithQueryBudget caps upstream queries per calendar month. Over the cap,
// queries fail with ErrQuotaExceeded when reject is true and are only
// logged otherwise. The persisted count requires WithRedisCache.
func WithQueryBudget(monthlyLimit int64, reject bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.monthlyLimit = monthlyLimit
		c.rejectOver = reject
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

func (c *clientConfig) target() (domain.Target, error) {
	switch c.apiVersion {
	case domain.V1:
		return domain.NewV1Target(c.environmentID, c.collectionID)
	case domain.V2:
		return domain.NewV2Target(c.projectID, c.collectionIDs)
	default:
		return domain.Target{}, domain.ErrMissingTarget
	}
}
