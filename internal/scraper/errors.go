package scraper

import "errors"

// ErrEmptyFrontier is returned when a step is attempted against an empty
// frontier. It means the crawl is exhausted for now, not that anything
// failed; callers are expected to stop the loop, not report an error.
var ErrEmptyFrontier = errors.New("frontier is empty")
