package discovery

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSourceID is returned when a related-items lookup is attempted
	// for an empty video id.
	ErrNoSourceID = errors.New("no source video id for related lookup")
	// ErrUnauthorized is returned on a 401 response, which means the API
	// key is missing or invalid. Fatal to the run.
	ErrUnauthorized = errors.New("discovery request unauthorized (check API key)")
	// ErrQuotaExceeded is returned on a 403 response. Fatal to the run.
	ErrQuotaExceeded = errors.New("discovery request forbidden (quota exceeded)")
	// ErrMalformedResponse is returned when a 200 response body cannot be
	// decoded. A well-formed body with an empty items array is not an error.
	ErrMalformedResponse = errors.New("malformed discovery response")
)

// UnsupportedStrategyError indicates a selection strategy this gateway does
// not implement. This is a programmer error, not a runtime condition.
type UnsupportedStrategyError struct {
	Strategy Strategy
}

func (e *UnsupportedStrategyError) Error() string {
	return fmt.Sprintf("unsupported selection strategy %q", string(e.Strategy))
}

// UnexpectedStatusError is returned for unrecognized non-200 statuses.
type UnexpectedStatusError struct {
	StatusCode int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected discovery response status %d", e.StatusCode)
}

// IsFatal reports whether an error from the discovery gateway should abort
// the crawl run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrQuotaExceeded)
}
