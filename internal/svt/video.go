package svt

import (
	log "github.com/sirupsen/logrus"

	"svtdl/internal/media"
)

// geoCountries is the only region SVT serves geo-blocked content to.
var geoCountries = []string{"SE"}

// defaultSubtitleLanguage fills in for subtitle references that carry
// no language tag.
const defaultSubtitleLanguage = "sv"

// hbbtvPlayerType gates DASH references: SVT publishes several MPD
// variants but only the HbbTV one decodes correctly, the rest are
// skipped on purpose.
const hbbtvPlayerType = "dashhbbtv"

// extractVideo resolves a raw video payload into a canonical item:
// formats from every playable reference, subtitles grouped by language
// and the live flag. A GeoRestrictedError is returned only when not a
// single format could be resolved and the payload is flagged as
// blocked outside Sweden.
func extractVideo(dec ManifestDecoder, raw *videoInfo, id string) (*media.Item, error) {
	isLive := raw.Live || raw.Simulcast

	var formats []media.Format
	for _, ref := range raw.VideoReferences {
		if ref.URL == "" {
			continue
		}
		playerType := ref.playerTypeOf()
		switch determineExt(ref.URL) {
		case "m3u8":
			fs, err := dec.HLS(ref.URL, id, playerType, "mp4", isLive)
			if err != nil {
				log.WithFields(log.Fields{"id": id, "url": ref.URL}).Debugf("skipping HLS reference: %v", err)
				continue
			}
			formats = append(formats, fs...)
		case "f4m":
			// The CDN rejects F4M requests without an hdcore version.
			fs, err := dec.HDS(ref.URL+"?hdcore=3.3.0", id, playerType)
			if err != nil {
				log.WithFields(log.Fields{"id": id, "url": ref.URL}).Debugf("skipping HDS reference: %v", err)
				continue
			}
			formats = append(formats, fs...)
		case "mpd":
			if playerType != hbbtvPlayerType {
				continue
			}
			fs, err := dec.DASH(ref.URL, id, playerType)
			if err != nil {
				log.WithFields(log.Fields{"id": id, "url": ref.URL}).Debugf("skipping DASH reference: %v", err)
				continue
			}
			formats = append(formats, fs...)
		default:
			formats = append(formats, media.Format{
				FormatID: playerType,
				URL:      ref.URL,
				Protocol: "https",
			})
		}
	}

	if len(formats) == 0 && raw.Rights != nil && raw.Rights.GeoBlockedSweden {
		return nil, &GeoRestrictedError{
			ID:        id,
			Countries: geoCountries,
			Msg:       "This video is only available in Sweden",
		}
	}

	formats = media.DedupeFormats(formats)
	media.SortFormats(formats)

	item := &media.Item{
		ID:        id,
		Formats:   formats,
		Subtitles: extractSubtitles(raw),
		IsLive:    isLive,
	}
	extractMetadata(item, raw)
	return item, nil
}

// extractSubtitles groups subtitle references by language, preserving
// encounter order within each group. Embedded-caption manifests
// (subtitle URLs that are themselves m3u8 playlists) are not supported
// and dropped.
func extractSubtitles(raw *videoInfo) map[string][]media.Subtitle {
	refs := raw.subtitleRefs()
	if len(refs) == 0 {
		return nil
	}
	subtitles := make(map[string][]media.Subtitle)
	for _, ref := range refs {
		if ref.URL == "" {
			continue
		}
		if determineExt(ref.URL) == "m3u8" {
			continue
		}
		lang := ref.Language
		if lang == "" {
			lang = defaultSubtitleLanguage
		}
		subtitles[lang] = append(subtitles[lang], media.Subtitle{URL: ref.URL})
	}
	if len(subtitles) == 0 {
		return nil
	}
	return subtitles
}
