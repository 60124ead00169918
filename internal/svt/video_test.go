package svt

import (
	"errors"
	"strings"
	"testing"

	"svtdl/internal/media"
)

func TestExtractVideoDirectReferences(t *testing.T) {
	dec := &fakeDecoder{}
	raw := decodeInfo(t, `{"videoReferences": [
		{"playerType": "flash", "url": "https://cdn.svt.se/video.mp4"},
		{"format": "mobile", "url": "https://cdn.svt.se/video-low.mp4"}
	]}`)

	item, err := extractVideo(dec, raw, "123")
	if err != nil {
		t.Fatalf("extractVideo: %v", err)
	}

	if len(item.Formats) != 2 {
		t.Fatalf("got %d formats, want 2", len(item.Formats))
	}
	if len(dec.hlsCalls)+len(dec.hdsCalls)+len(dec.dashCalls) != 0 {
		t.Errorf("manifest decoder was invoked for direct references")
	}

	// playerType preferred, format key as fallback
	ids := []string{item.Formats[0].FormatID, item.Formats[1].FormatID}
	for _, want := range []string{"flash", "mobile"} {
		found := false
		for _, id := range ids {
			if id == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing format id %q in %v", want, ids)
		}
	}
}

func TestExtractVideoHLS(t *testing.T) {
	dec := &fakeDecoder{hlsFormats: []media.Format{
		{FormatID: "hls-2000", URL: "https://cdn.svt.se/v/2000.m3u8", Ext: "mp4"},
	}}
	raw := decodeInfo(t, `{"live": true, "videoReferences": [
		{"playerType": "hls", "url": "https://cdn.svt.se/master.m3u8"}
	]}`)

	item, err := extractVideo(dec, raw, "123")
	if err != nil {
		t.Fatalf("extractVideo: %v", err)
	}

	if len(dec.hlsCalls) != 1 {
		t.Fatalf("got %d HLS calls, want 1", len(dec.hlsCalls))
	}
	call := dec.hlsCalls[0]
	if call.ext != "mp4" {
		t.Errorf("HLS ext override = %q, want mp4", call.ext)
	}
	if !call.live {
		t.Errorf("live flag not threaded into HLS decode")
	}
	if !item.IsLive {
		t.Errorf("IsLive = false, want true")
	}
	if len(item.Formats) != 1 {
		t.Errorf("got %d formats, want 1", len(item.Formats))
	}
}

func TestExtractVideoHLSFailureNonFatal(t *testing.T) {
	dec := &fakeDecoder{hlsErr: errors.New("manifest gone")}
	raw := decodeInfo(t, `{"videoReferences": [
		{"playerType": "hls", "url": "https://cdn.svt.se/master.m3u8"},
		{"playerType": "flash", "url": "https://cdn.svt.se/video.mp4"}
	]}`)

	item, err := extractVideo(dec, raw, "123")
	if err != nil {
		t.Fatalf("extractVideo: %v", err)
	}
	if len(item.Formats) != 1 || item.Formats[0].FormatID != "flash" {
		t.Errorf("expected only the direct format to survive, got %+v", item.Formats)
	}
}

func TestExtractVideoHDSQueryParam(t *testing.T) {
	dec := &fakeDecoder{hdsFormats: []media.Format{{FormatID: "hds-1000", URL: "https://cdn.svt.se/m.f4m"}}}
	raw := decodeInfo(t, `{"videoReferences": [
		{"playerType": "flash", "url": "https://cdn.svt.se/manifest.f4m"}
	]}`)

	if _, err := extractVideo(dec, raw, "123"); err != nil {
		t.Fatalf("extractVideo: %v", err)
	}
	if len(dec.hdsCalls) != 1 {
		t.Fatalf("got %d HDS calls, want 1", len(dec.hdsCalls))
	}
	if !strings.HasSuffix(dec.hdsCalls[0], "?hdcore=3.3.0") {
		t.Errorf("HDS manifest URL %q lacks the hdcore parameter", dec.hdsCalls[0])
	}
}

func TestExtractVideoDASHGating(t *testing.T) {
	tests := []struct {
		name       string
		playerType string
		wantCalls  int
	}{
		{"hbbtv decodes", "dashhbbtv", 1},
		{"other dash skipped", "dash", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec := &fakeDecoder{dashFormats: []media.Format{
				{FormatID: "dashhbbtv-720", URL: "https://cdn.svt.se/m.mpd"},
			}}
			raw := decodeInfo(t, `{"videoReferences": [
				{"playerType": "`+tt.playerType+`", "url": "https://cdn.svt.se/manifest.mpd"}
			]}`)

			item, err := extractVideo(dec, raw, "123")
			if err != nil {
				t.Fatalf("extractVideo: %v", err)
			}
			if len(dec.dashCalls) != tt.wantCalls {
				t.Errorf("got %d DASH calls, want %d", len(dec.dashCalls), tt.wantCalls)
			}
			wantFormats := tt.wantCalls
			if len(item.Formats) != wantFormats {
				t.Errorf("got %d formats, want %d", len(item.Formats), wantFormats)
			}
		})
	}
}

func TestExtractVideoGeoRestricted(t *testing.T) {
	dec := &fakeDecoder{}
	raw := decodeInfo(t, `{"videoReferences": [], "rights": {"geoBlockedSweden": true}}`)

	_, err := extractVideo(dec, raw, "5219710")
	var geoErr *GeoRestrictedError
	if !errors.As(err, &geoErr) {
		t.Fatalf("got %v, want GeoRestrictedError", err)
	}
	if geoErr.ID != "5219710" {
		t.Errorf("GeoRestrictedError.ID = %q, want 5219710", geoErr.ID)
	}
	if len(geoErr.Countries) != 1 || geoErr.Countries[0] != "SE" {
		t.Errorf("Countries = %v, want [SE]", geoErr.Countries)
	}
}

func TestExtractVideoGeoFlagWithFormats(t *testing.T) {
	dec := &fakeDecoder{}
	raw := decodeInfo(t, `{
		"videoReferences": [{"playerType": "flash", "url": "https://cdn.svt.se/video.mp4"}],
		"rights": {"geoBlockedSweden": true}
	}`)

	item, err := extractVideo(dec, raw, "123")
	if err != nil {
		t.Fatalf("a partial success must not raise a geo error, got %v", err)
	}
	if len(item.Formats) != 1 {
		t.Errorf("got %d formats, want 1", len(item.Formats))
	}
}

func TestExtractVideoDedupe(t *testing.T) {
	dec := &fakeDecoder{}
	raw := decodeInfo(t, `{"videoReferences": [
		{"playerType": "flash", "url": "https://cdn.svt.se/video.mp4"},
		{"playerType": "flash", "url": "https://cdn.svt.se/video.mp4"}
	]}`)

	item, err := extractVideo(dec, raw, "123")
	if err != nil {
		t.Fatalf("extractVideo: %v", err)
	}
	if len(item.Formats) != 1 {
		t.Errorf("got %d formats after dedupe, want 1", len(item.Formats))
	}
}

func TestExtractSubtitles(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]int // language -> track count
	}{
		{
			"language defaults to sv",
			`{"subtitleReferences": [{"url": "https://cdn.svt.se/sub.vtt"}]}`,
			map[string]int{"sv": 1},
		},
		{
			"explicit language",
			`{"subtitleReferences": [{"url": "https://cdn.svt.se/sub.vtt", "language": "en"}]}`,
			map[string]int{"en": 1},
		},
		{
			"m3u8 captions dropped",
			`{"subtitleReferences": [{"url": "https://cdn.svt.se/sub.m3u8"}]}`,
			nil,
		},
		{
			"empty url skipped",
			`{"subtitleReferences": [{"url": "", "language": "sv"}]}`,
			nil,
		},
		{
			"subtitles key preferred",
			`{"subtitles": [{"url": "https://cdn.svt.se/a.vtt"}],
			  "subtitleReferences": [{"url": "https://cdn.svt.se/b.vtt", "language": "en"}]}`,
			map[string]int{"sv": 1},
		},
		{
			"non-list shape ignored",
			`{"subtitles": {"sv": "https://cdn.svt.se/sub.vtt"}}`,
			nil,
		},
		{
			"multiple tracks same language keep order",
			`{"subtitleReferences": [
				{"url": "https://cdn.svt.se/1.vtt"},
				{"url": "https://cdn.svt.se/2.vtt"}
			]}`,
			map[string]int{"sv": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs := extractSubtitles(decodeInfo(t, tt.raw))
			if len(subs) != len(tt.want) {
				t.Fatalf("got %d languages, want %d (%v)", len(subs), len(tt.want), subs)
			}
			for lang, count := range tt.want {
				if len(subs[lang]) != count {
					t.Errorf("language %q has %d tracks, want %d", lang, len(subs[lang]), count)
				}
			}
		})
	}
}

func TestExtractSubtitlesEncounterOrder(t *testing.T) {
	subs := extractSubtitles(decodeInfo(t, `{"subtitleReferences": [
		{"url": "https://cdn.svt.se/1.vtt"},
		{"url": "https://cdn.svt.se/2.vtt"}
	]}`))
	if subs["sv"][0].URL != "https://cdn.svt.se/1.vtt" || subs["sv"][1].URL != "https://cdn.svt.se/2.vtt" {
		t.Errorf("encounter order not preserved: %+v", subs["sv"])
	}
}

func TestDetermineExt(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.svt.se/master.m3u8", "m3u8"},
		{"https://cdn.svt.se/master.m3u8?token=abc", "m3u8"},
		{"https://cdn.svt.se/manifest.f4m", "f4m"},
		{"https://cdn.svt.se/manifest.mpd", "mpd"},
		{"https://cdn.svt.se/video.mp4", "mp4"},
		{"https://cdn.svt.se/stream", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := determineExt(tt.url); got != tt.want {
				t.Errorf("determineExt(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
