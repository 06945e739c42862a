package catalog

import "encoding/json"

// SongResult is the catalog's authoritative record for a matched song.
type SongResult struct {
	SongID    string
	Artist    string
	Track     string
	GenreName string
}

// Label returns the canonical "artist - track" form used for accepted items.
func (r *SongResult) Label() string {
	return r.Artist + " - " + r.Track
}

// SeedTrack is one entry of a genre's top-songs feed, used only while
// building the initial frontier.
type SeedTrack struct {
	SongID string
	Label  string
}

// Wire schemas. The upstream API serves loosely-shaped JSON; these structs
// pin down exactly the fields we read so a missing key surfaces as
// ErrMalformedResponse instead of a zero value sneaking through.

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	TrackID          json.Number `json:"trackId"`
	ArtistName       string      `json:"artistName"`
	TrackName        string      `json:"trackName"`
	PrimaryGenreName string      `json:"primaryGenreName"`
}

// genreNode is one node of the nested taxonomy document. Subgenres nest one
// more level in practice; deeper nesting is simply not descended into.
type genreNode struct {
	Name      string               `json:"name"`
	Subgenres map[string]genreNode `json:"subgenres"`
}

// The top-songs feed wraps entries in feed.entry, where entry is an array
// normally but a bare object when exactly one entry is returned.
type topSongsResponse struct {
	Feed struct {
		Entry json.RawMessage `json:"entry"`
	} `json:"feed"`
}

type feedEntry struct {
	Title struct {
		Label string `json:"label"`
	} `json:"title"`
	ID struct {
		Attributes struct {
			SongID string `json:"im:id"`
		} `json:"attributes"`
	} `json:"id"`
}
