package health

import (
	"context"

	"github.com/kailas-cloud/reviewlens/internal/domain"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	cache    CachePinger
	upstream UpstreamChecker
	target   domain.Target
}

// New creates a Service. cache and upstream can be nil.
func New(cache CachePinger, upstream UpstreamChecker, target domain.Target) *Service {
	return &Service{cache: cache, upstream: upstream, target: target}
}

// Check runs health checks against all components. The service is
// unhealthy when the search service is unreachable and degraded when only
// the cache is.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.cache != nil {
		checks["cache"] = result(s.cache.Ping(ctx))
	}
	if s.upstream != nil {
		checks["upstream"] = result(s.upstream.HealthCheck(ctx, s.target))
	}

	status := Healthy
	if checks["upstream"] == CheckError {
		status = Unhealthy
	} else if checks["cache"] == CheckError {
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
