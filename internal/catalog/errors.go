package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned on a 401 response. Retrying will not help
	// without a credential change, so callers treat this as fatal to the run.
	ErrUnauthorized = errors.New("catalog request unauthorized")
	// ErrRateLimited is returned on a 403 response, which the catalog uses
	// for quota exhaustion. Fatal to the current run.
	ErrRateLimited = errors.New("catalog request forbidden (rate limit)")
	// ErrMalformedResponse is returned when a 200 response body does not
	// match the expected schema.
	ErrMalformedResponse = errors.New("malformed catalog response")
)

// UnexpectedStatusError is returned for any non-200 status that is not one
// of the recognized failure classes.
type UnexpectedStatusError struct {
	StatusCode int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected catalog response status %d", e.StatusCode)
}

// IsFatal reports whether an error from the catalog gateway should abort
// the crawl run rather than discard the current candidate.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrRateLimited)
}
