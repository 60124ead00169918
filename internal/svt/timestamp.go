package svt

import (
	"strings"
	"time"
)

// timestampLayouts is the fixed order in which free-form date strings
// from the provider are tried. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTimestamp converts a provider date string to Unix seconds.
// Unparseable or empty input reports ok=false, never an error.
func parseTimestamp(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), true
		}
	}
	return 0, false
}

// nowFunc is swapped out in tests.
var nowFunc = time.Now

// liveTitle applies the provider-wide convention for titles of
// currently-live streams. The stamp is always UTC, independent of the
// host's location.
func liveTitle(title string) string {
	return title + " " + nowFunc().UTC().Format("2006-01-02 15:04")
}
