package svt

import (
	"bytes"
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// videoInfo is the provider's raw video payload. The same logical field
// arrives under different names depending on the endpoint, so every
// alternate key gets its own struct field and an accessor picks the
// first present one in fixed order.
type videoInfo struct {
	Title         string  `json:"title"`
	ProgramTitle  string  `json:"programTitle"`
	Season        flexInt `json:"season"`
	EpisodeTitle  string  `json:"episodeTitle"`
	EpisodeNumber flexInt `json:"episodeNumber"`
	Thumbnail     string  `json:"thumbnail"`
	Description   string  `json:"description"`
	ValidFrom     string  `json:"validFrom"`

	MaterialLength  flexInt `json:"materialLength"`
	ContentDuration flexInt `json:"contentDuration"`

	InappropriateForChildren *bool `json:"inappropriateForChildren"`
	BlockedForChildren       *bool `json:"blockedForChildren"`

	Live      bool `json:"live"`
	Simulcast bool `json:"simulcast"`

	VideoReferences []videoReference `json:"videoReferences"`

	// Arrives as a list on some endpoints and other shapes elsewhere;
	// kept raw and only used when it really is a list.
	Subtitles          json.RawMessage `json:"subtitles"`
	SubtitleReferences json.RawMessage `json:"subtitleReferences"`

	Rights *videoRights `json:"rights"`
}

type videoRights struct {
	ValidFrom        string `json:"validFrom"`
	GeoBlockedSweden bool   `json:"geoBlockedSweden"`
}

type videoReference struct {
	PlayerType string `json:"playerType"`
	Format     string `json:"format"`
	URL        string `json:"url"`
}

type subtitleReference struct {
	URL      string `json:"url"`
	Language string `json:"language"`
}

// playerTypeOf returns the reference's tag, preferring playerType over
// the older format key.
func (r videoReference) playerTypeOf() string {
	if r.PlayerType != "" {
		return r.PlayerType
	}
	return r.Format
}

// validFromOf is the timestamp source priority list: top-level
// validFrom first, then rights.validFrom.
func (v *videoInfo) validFromOf() string {
	if v.ValidFrom != "" {
		return v.ValidFrom
	}
	if v.Rights != nil {
		return v.Rights.ValidFrom
	}
	return ""
}

// durationOf is the duration source priority list: materialLength
// first, then contentDuration.
func (v *videoInfo) durationOf() (int, bool) {
	if v.MaterialLength.ok {
		return v.MaterialLength.value, true
	}
	if v.ContentDuration.ok {
		return v.ContentDuration.value, true
	}
	return 0, false
}

// adultOf is the age-rating source priority list. The tri-state result
// distinguishes an explicit false from the flag being absent.
func (v *videoInfo) adultOf() (bool, bool) {
	if v.InappropriateForChildren != nil {
		return *v.InappropriateForChildren, true
	}
	if v.BlockedForChildren != nil {
		return *v.BlockedForChildren, true
	}
	return false, false
}

// subtitleRefs returns the first present subtitle source, but only when
// it is literally a JSON array; any other shape is ignored. Malformed
// entries inside the array are skipped individually.
func (v *videoInfo) subtitleRefs() []subtitleReference {
	raw := v.Subtitles
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		raw = v.SubtitleReferences
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil
	}
	refs := make([]subtitleReference, 0, len(elems))
	for _, e := range elems {
		var ref subtitleReference
		if err := json.Unmarshal(e, &ref); err != nil {
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}

// decodeVideoInfo parses a raw JSON object into a videoInfo. Anything
// that is not an object yields nil.
func decodeVideoInfo(raw json.RawMessage) *videoInfo {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var vi videoInfo
	if err := json.Unmarshal(trimmed, &vi); err != nil {
		return nil
	}
	return &vi
}

// flexInt is an integer that may arrive as a JSON number or a numeric
// string. Any other shape leaves it unset without failing the decode.
type flexInt struct {
	value int
	ok    bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	f.value = int(n)
	f.ok = true
	return nil
}

// rawString returns a JSON value only when it is a non-empty string.
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// coerceString renders a JSON string or number as text; anything else
// yields the empty string.
func coerceString(raw json.RawMessage) string {
	if s := rawString(raw); s != "" {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	return n.String()
}

var extRe = regexp.MustCompile(`\.([A-Za-z0-9]+)$`)

// determineExt returns the lower-cased file extension of a URL's path,
// ignoring any query string.
func determineExt(rawURL string) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		path = u.Path
	} else if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if m := extRe.FindStringSubmatch(path); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}
