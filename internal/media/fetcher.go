// Package media defines the media fetch contract consumed by the download
// driver, plus an implementation that shells out to yt-dlp for fetch and
// audio extraction.
package media

import (
	"context"
	"errors"
	"fmt"
)

// ErrConnectivity classifies fetch failures caused by the network rather
// than the media itself. The download driver leaves such songs in the
// not-downloaded state so a later pass can retry them.
var ErrConnectivity = errors.New("media fetch connectivity failure")

// FetchError is a permanent, non-connectivity fetch failure: the media is
// gone, region-locked, or otherwise unfetchable.
type FetchError struct {
	VideoID string
	Detail  string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %s", e.VideoID, e.Detail)
}

// Fetcher retrieves a video's audio into destDir. Implementations own the
// output filename ({id}.{ext}) and the target codec and quality. Errors are
// either connectivity-class (ErrConnectivity in the chain) or permanent.
type Fetcher interface {
	Fetch(ctx context.Context, videoID, destDir string) error
}
