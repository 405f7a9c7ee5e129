package domain

import (
	"errors"
	"fmt"
)

// QuotaExceededMessage is the message the upstream service returns when the
// monthly free query allowance is used up.
const QuotaExceededMessage = "Number of free queries per month exceeded"

var (
	// ErrInvalidRequest signals malformed inbound search parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnknownQueryType signals a canned query type outside the catalog.
	ErrUnknownQueryType = errors.New("unknown query type")
	// ErrMalformedResponse signals an upstream payload without the expected result path.
	ErrMalformedResponse = errors.New("bad response shape")
	// ErrQuotaExceeded signals an exhausted upstream query allowance.
	ErrQuotaExceeded = errors.New("query quota exceeded")
	// ErrUpstream signals any other upstream failure.
	ErrUpstream = errors.New("upstream error")
	// ErrStaleResponse signals a response superseded by a newer request.
	ErrStaleResponse = errors.New("stale response")
	// ErrMissingTarget signals that upstream identifiers were not configured.
	ErrMissingTarget = errors.New("upstream target not configured")
)

// UpstreamError carries the upstream HTTP status and message.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrUpstream.Error(), e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// NewUpstreamError creates an upstream error.
func NewUpstreamError(status int, message string) error {
	return &UpstreamError{Status: status, Message: message}
}

// MalformedResponseError names the response path that could not be resolved.
type MalformedResponseError struct {
	Path string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: missing %q", ErrMalformedResponse.Error(), e.Path)
}

func (e *MalformedResponseError) Unwrap() error { return ErrMalformedResponse }
