package providers

import "errors"

// Failure kinds shared by all providers. Missing credentials are caught at
// construction, before any request leaves the process; completion failures
// carry the per-attempt cause.
var (
	ErrMissingAPIKey    = errors.New("missing_api_key")
	ErrCompletionFailed = errors.New("completion_failed")
)
