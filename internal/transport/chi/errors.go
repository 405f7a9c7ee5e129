package chi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewlens/internal/domain"
)

// ErrorCode is the machine-readable error code of an error response.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeUnknownQueryType ErrorCode = "unknown_query_type"
	CodeQuotaExceeded    ErrorCode = "quota_exceeded"
	CodeBadResponseShape ErrorCode = "bad_response_shape"
	CodeUpstreamError    ErrorCode = "upstream_error"
	CodeNotConfigured    ErrorCode = "not_configured"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		quotaHandler,
		upstreamHandler,
		sentinelHandler(domain.ErrMalformedResponse, http.StatusBadGateway, CodeBadResponseShape),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrUnknownQueryType, http.StatusNotFound, CodeUnknownQueryType),
		sentinelHandler(domain.ErrMissingTarget, http.StatusServiceUnavailable, CodeNotConfigured),
	}
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message without exposing internals.
func safeDomainMessage(err error) string {
	var mre *domain.MalformedResponseError
	if errors.As(err, &mre) {
		return mre.Error()
	}
	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		return ue.Message
	}
	sentinels := []error{
		domain.ErrQuotaExceeded,
		domain.ErrMalformedResponse,
		domain.ErrInvalidRequest,
		domain.ErrUnknownQueryType,
		domain.ErrMissingTarget,
		domain.ErrUpstream,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// quotaHandler reports an exhausted query allowance with the service's own
// wording.
func quotaHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		return false
	}
	writeError(w, http.StatusTooManyRequests, CodeQuotaExceeded, domain.QuotaExceededMessage)
	return true
}

// upstreamHandler passes upstream client errors (4xx) through and maps
// everything else to 502.
func upstreamHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrUpstream) {
		return false
	}
	status := http.StatusBadGateway
	var ue *domain.UpstreamError
	if errors.As(err, &ue) && ue.Status >= 400 && ue.Status < 500 {
		status = ue.Status
	}
	writeError(w, status, CodeUpstreamError, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
