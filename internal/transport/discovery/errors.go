package discovery

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/reviewlens/internal/domain"
)

// parseAPIError maps an upstream error response to a domain error. Quota
// exhaustion, signalled by status 429 or the service's quota message, maps
// to domain.ErrQuotaExceeded; everything else to *domain.UpstreamError.
func parseAPIError(status int, body []byte) error {
	msg := extractMessage(body)
	if status == http.StatusTooManyRequests || msg == domain.QuotaExceededMessage {
		if msg == "" {
			msg = domain.QuotaExceededMessage
		}
		return fmt.Errorf("%s: %w", msg, domain.ErrQuotaExceeded)
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return domain.NewUpstreamError(status, msg)
}

// extractMessage reads the error text from the v1 ("error"), v2
// ("errors[0].message") or generic ("message") error body shapes.
func extractMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body))
	}
	for _, path := range []string{"error", "errors.0.message", "message"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.String() != "" {
			return r.String()
		}
	}
	return ""
}

func isQuota(err error) bool {
	return errors.Is(err, domain.ErrQuotaExceeded)
}
