package scraper

import "regexp"

// Discovery titles are noisy: "Artist ft. Guest - Track [Official Video]"
// and worse. NormalizeLabel strips the featuring marker and keeps the
// leading "artist - track" shape; anything that does not fit the shape is
// not searchable against the catalog.
var (
	featuringMarker = regexp.MustCompile(`(?i) ft\. `)
	labelShape      = regexp.MustCompile(`^[\w\s&+]+ *- *[\w\s,]+`)
)

// NormalizeLabel derives a catalog search term from a raw discovery title.
// The second return value is false when the title does not match the
// expected artist - track shape.
func NormalizeLabel(raw string) (string, bool) {
	cleaned := featuringMarker.ReplaceAllString(raw, " ")
	match := labelShape.FindString(cleaned)
	if match == "" {
		return "", false
	}
	return match, true
}
