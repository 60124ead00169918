package svt

import (
	"strings"

	"svtdl/internal/media"
)

// thumbnailFormat replaces the provider's size placeholder in thumbnail
// URLs.
const thumbnailFormat = "extralarge"

// extractMetadata merges provider metadata into item. A field present
// and non-empty in the raw payload overwrites the item's value; fields
// the payload does not carry are left untouched. Pure function of its
// inputs.
func extractMetadata(item *media.Item, raw *videoInfo) {
	if raw == nil {
		return
	}

	if raw.Title != "" {
		item.Title = raw.Title
	}
	if raw.ProgramTitle != "" {
		item.Series = raw.ProgramTitle
	}
	if raw.Season.ok {
		item.SeasonNumber = raw.Season.value
	}
	if raw.EpisodeTitle != "" {
		item.Episode = raw.EpisodeTitle
	}
	if raw.EpisodeNumber.ok {
		item.EpisodeNumber = raw.EpisodeNumber.value
	}
	if raw.Thumbnail != "" {
		item.Thumbnail = strings.ReplaceAll(raw.Thumbnail, "{format}", thumbnailFormat)
	}
	if raw.Description != "" {
		item.Description = raw.Description
	}
	if ts, ok := parseTimestamp(raw.validFromOf()); ok {
		item.Timestamp = ts
	}
	if d, ok := raw.durationOf(); ok {
		item.Duration = d
	}
	if adult, ok := raw.adultOf(); ok {
		limit := 0
		if adult {
			limit = 18
		}
		item.AgeLimit = &limit
	}
}
