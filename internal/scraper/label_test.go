package scraper

import "testing"

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{
			name:     "PlainArtistTrack",
			raw:      "Daft Punk - Harder Better Faster Stronger",
			expected: "Daft Punk - Harder Better Faster Stronger",
			ok:       true,
		},
		{
			name:     "FeaturingMarkerStripped",
			raw:      "Calvin Harris ft. Rihanna - This Is What You Came For",
			expected: "Calvin Harris Rihanna - This Is What You Came For",
			ok:       true,
		},
		{
			name:     "FeaturingMarkerCaseInsensitive",
			raw:      "Artist FT. Guest - Track",
			expected: "Artist Guest - Track",
			ok:       true,
		},
		{
			name:     "TrailingDecorationDropped",
			raw:      "Artist - Track [Official Video]",
			expected: "Artist - Track ",
			ok:       true,
		},
		{
			name:     "AmpersandInArtist",
			raw:      "Simon & Garfunkel - The Sound of Silence",
			expected: "Simon & Garfunkel - The Sound of Silence",
			ok:       true,
		},
		{
			name:     "CommaInTrack",
			raw:      "Artist - Track, Part 2",
			expected: "Artist - Track, Part 2",
			ok:       true,
		},
		{
			name: "NoSeparator",
			raw:  "Just a vlog title",
			ok:   false,
		},
		{
			name: "ParenthesisBeforeSeparator",
			raw:  "Artist (Live) - Track",
			ok:   false,
		},
		{
			name: "Empty",
			raw:  "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeLabel(tt.raw)
			if ok != tt.ok {
				t.Fatalf("NormalizeLabel(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("NormalizeLabel(%q) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}
