package scraper

// DownloadStatus tracks the fetch lifecycle of an accepted song.
// The only legal transitions are NotDownloaded -> Downloaded and
// NotDownloaded -> Failed; rows are never moved out of a terminal status.
type DownloadStatus int

const (
	StatusNotDownloaded DownloadStatus = 0
	StatusDownloaded    DownloadStatus = 1
	StatusFailed        DownloadStatus = 2
)

// String returns the status name for logs and the status command.
func (s DownloadStatus) String() string {
	switch s {
	case StatusNotDownloaded:
		return "not_downloaded"
	case StatusDownloaded:
		return "downloaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Genre is one node of the catalog's genre taxonomy. Name is stored
// lowercased and used as the reconciliation match key. ParentID is empty
// for top-level genres.
type Genre struct {
	ID       string
	ParentID string
	Name     string
}

// Song is an accepted item: a video identifier confirmed against the
// catalog and recorded for download. Label holds the catalog's canonical
// "artist - track" form, not the raw discovery title.
type Song struct {
	VideoID  string
	Label    string
	SongID   string
	GenreID  string
	Download DownloadStatus
}

// FrontierEntry is a discovered-but-unevaluated candidate. It carries the
// raw discovery-provider title, which is only normalized at evaluation time.
type FrontierEntry struct {
	VideoID string
	Label   string
}

// StatusUpdate pairs a video id with the download outcome to persist for it.
type StatusUpdate struct {
	VideoID string
	Status  DownloadStatus
}

// StoreCounts summarizes the persistent state for status reporting.
type StoreCounts struct {
	Genres        int
	Songs         int
	Frontier      int
	NotDownloaded int
	Downloaded    int
	Failed        int
}
