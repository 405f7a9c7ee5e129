package discovery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewlens/internal/domain"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/params"
	"github.com/kailas-cloud/reviewlens/internal/metrics"
)

// maxResponseBytes bounds the upstream body read into memory.
const maxResponseBytes = 64 << 20

// Config holds the search service connection settings.
type Config struct {
	BaseURL     string
	APIKey      string
	VersionDate string
	Timeout     time.Duration
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// Client queries a hosted discovery service over its REST API.
type Client struct {
	http        *http.Client
	baseURL     string
	apiKey      string
	versionDate string
	logger      *zap.Logger
}

// NewClient creates a discovery client.
func NewClient(cfg *Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:        hc,
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		versionDate: cfg.VersionDate,
		logger:      logger,
	}
}

// Query sends one query and returns the raw JSON response body.
func (c *Client) Query(ctx context.Context, p params.Params) ([]byte, error) {
	variant := string(p.Variant)
	req, err := c.newQueryRequest(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}

	c.logger.Debug("Discovery query",
		zap.String("variant", variant),
		zap.Any("params", p.Map()),
	)

	start := time.Now()
	body, status, err := c.send(req)
	metrics.UpstreamRequestDuration.WithLabelValues(variant).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(variant, "error").Inc()
		metrics.UpstreamErrorsTotal.WithLabelValues(variant, "transport").Inc()
		return nil, fmt.Errorf("query request failed: %w: %w", domain.ErrUpstream, err)
	}

	if status >= http.StatusBadRequest {
		apiErr := parseAPIError(status, body)
		errType := "api_error"
		if isQuota(apiErr) {
			errType = "quota"
			c.logger.Warn("Discovery query quota exceeded", zap.Int("status", status))
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(variant, "error").Inc()
		metrics.UpstreamErrorsTotal.WithLabelValues(variant, errType).Inc()
		return nil, apiErr
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(variant, "success").Inc()
	return body, nil
}

// HealthCheck verifies that the configured environment or project is reachable.
func (c *Client) HealthCheck(ctx context.Context, t domain.Target) error {
	var path string
	switch t.Version() {
	case domain.V2:
		path = "/v2/projects/" + url.PathEscape(t.ProjectID())
	default:
		path = "/v1/environments/" + url.PathEscape(t.EnvironmentID())
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	body, status, err := c.send(req)
	if err != nil {
		return fmt.Errorf("health request failed: %w", err)
	}
	if status != http.StatusOK {
		return parseAPIError(status, body)
	}
	return nil
}

func (c *Client) newQueryRequest(ctx context.Context, p params.Params) (*http.Request, error) {
	t := p.Target
	switch t.Version() {
	case domain.V1:
		path := "/v1/environments/" + url.PathEscape(t.EnvironmentID()) +
			"/collections/" + url.PathEscape(t.CollectionID()) + "/query"
		return c.newRequest(ctx, http.MethodGet, path, p.Values(), nil)
	case domain.V2:
		body, err := p.Body()
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		path := "/v2/projects/" + url.PathEscape(t.ProjectID()) + "/query"
		return c.newRequest(ctx, http.MethodPost, path, nil, body)
	default:
		return nil, domain.ErrMissingTarget
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Request, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("version", c.versionDate)

	var rd io.Reader = http.NoBody
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query.Encode(), rd)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.SetBasicAuth("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) send(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}
