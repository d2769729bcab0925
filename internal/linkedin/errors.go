package linkedin

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials is returned when neither a service access token nor
// a client id/secret pair is configured. It is a configuration failure,
// distinct from UpstreamError: the upstream was never reached.
var ErrMissingCredentials = errors.New("LinkedIn API credentials missing: set LINKEDIN_CLIENT_ID and LINKEDIN_CLIENT_SECRET")

// UpstreamError reports a non-2xx response from the LinkedIn API. The raw
// body is kept for diagnostics and truncated when logged.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("linkedin request failed: status %d: %s", e.Status, Truncate(e.Body, 200))
}

// Truncate limits s to max bytes for log output.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
