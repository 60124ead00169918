// Package media defines the shared types for the svtdl application.
package media

import (
	"sort"

	"github.com/samber/lo"
)

// Format is one concrete playable rendition of a media asset.
type Format struct {
	FormatID string `json:"format_id"`          // e.g. "hls-1280", "flash", "dashhbbtv"
	URL      string `json:"url"`                // manifest variant or progressive URL
	Ext      string `json:"ext,omitempty"`      // container, e.g. "mp4"
	Protocol string `json:"protocol,omitempty"` // "https", "m3u8", "m3u8_native", "f4m", "dash"

	// Quality hints, zero when the source does not expose them.
	Bandwidth int64 `json:"bandwidth,omitempty"` // bits per second
	Width     int   `json:"width,omitempty"`
	Height    int   `json:"height,omitempty"`
}

// Subtitle is a single subtitle track. Tracks are grouped by language
// in Item.Subtitles, so the language does not repeat here.
type Subtitle struct {
	URL string `json:"url"`
}

// Item is the canonical single-media result every extractor produces.
// Zero values mean "unknown"; AgeLimit is a pointer because an explicit
// 0 (all ages) is distinct from not knowing.
type Item struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Formats       []Format              `json:"formats"`
	Subtitles     map[string][]Subtitle `json:"subtitles,omitempty"`
	IsLive        bool                  `json:"is_live,omitempty"`
	Description   string                `json:"description,omitempty"`
	Timestamp     int64                 `json:"timestamp,omitempty"` // Unix seconds
	Duration      int                   `json:"duration,omitempty"`  // seconds
	AgeLimit      *int                  `json:"age_limit,omitempty"`
	Series        string                `json:"series,omitempty"`
	SeasonNumber  int                   `json:"season_number,omitempty"`
	Episode       string                `json:"episode,omitempty"`
	EpisodeNumber int                   `json:"episode_number,omitempty"`
	Thumbnail     string                `json:"thumbnail,omitempty"`
}

// Entry is a lazy forward reference to a not-yet-resolved item. It
// carries the content id and the key of the extractor that can resolve
// it, so resolution needs no other context.
type Entry struct {
	ID        string `json:"id"`
	URL       string `json:"url"`       // e.g. "svt:KyVERRZ"
	Extractor string `json:"extractor"` // registry key, e.g. "svt:play"
}

// Playlist is the multi-entry result of the series and page extractors.
type Playlist struct {
	ID          string  `json:"id"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Entries     []Entry `json:"entries"`
}

// DedupeFormats removes duplicate formats, keyed by (format id, URL).
// The first occurrence wins so encounter order is preserved.
func DedupeFormats(formats []Format) []Format {
	return lo.UniqBy(formats, func(f Format) string {
		return f.FormatID + "|" + f.URL
	})
}

// SortFormats applies the quality ranking shared by all extractors:
// ascending bandwidth, then height, then format id. The sort is stable
// so identical inputs always produce identical output order.
func SortFormats(formats []Format) {
	sort.SliceStable(formats, func(i, j int) bool {
		a, b := formats[i], formats[j]
		if a.Bandwidth != b.Bandwidth {
			return a.Bandwidth < b.Bandwidth
		}
		if a.Height != b.Height {
			return a.Height < b.Height
		}
		return a.FormatID < b.FormatID
	})
}
