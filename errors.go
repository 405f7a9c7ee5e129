package reviewlens

import "github.com/kailas-cloud/reviewlens/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest    = domain.ErrInvalidRequest
	ErrUnknownQueryType  = domain.ErrUnknownQueryType
	ErrMalformedResponse = domain.ErrMalformedResponse
	ErrQuotaExceeded     = domain.ErrQuotaExceeded
	ErrUpstream          = domain.ErrUpstream
	ErrStaleResponse     = domain.ErrStaleResponse
	ErrMissingTarget     = domain.ErrMissingTarget
)

// UpstreamError carries the status and message of a failed upstream call.
type UpstreamError = domain.UpstreamError
