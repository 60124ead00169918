package manifest

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"svtdl/internal/media"
)

// Minimal MPD shape: representations with bandwidth/resolution plus the
// BaseURL chain needed to address them.
type mpd struct {
	BaseURL string      `xml:"BaseURL"`
	Periods []mpdPeriod `xml:"Period"`
}

type mpdPeriod struct {
	BaseURL        string             `xml:"BaseURL"`
	AdaptationSets []mpdAdaptationSet `xml:"AdaptationSet"`
}

type mpdAdaptationSet struct {
	MimeType        string              `xml:"mimeType,attr"`
	Representations []mpdRepresentation `xml:"Representation"`
}

type mpdRepresentation struct {
	ID        string `xml:"id,attr"`
	Bandwidth int64  `xml:"bandwidth,attr"`
	Width     int    `xml:"width,attr"`
	Height    int    `xml:"height,attr"`
	BaseURL   string `xml:"BaseURL"`
}

// DASH fetches an MPD manifest and returns one format per video
// representation. Audio-only adaptation sets are skipped; the
// downstream downloader reads them from the manifest itself.
func (d *Decoder) DASH(manifestURL, id, formatID string) ([]media.Format, error) {
	body, err := d.fetch.HTML(manifestURL, id)
	if err != nil {
		return nil, fmt.Errorf("fetching MPD manifest: %w", err)
	}
	return parseMPD(body, manifestURL, formatID)
}

func parseMPD(body, manifestURL, formatID string) ([]media.Format, error) {
	var doc mpd
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("parsing MPD: %w", err)
	}

	var formats []media.Format
	for _, period := range doc.Periods {
		for _, as := range period.AdaptationSets {
			if as.MimeType == "audio/mp4" {
				continue
			}
			for _, rep := range as.Representations {
				suffix := rep.ID
				if suffix == "" {
					suffix = strconv.FormatInt(rep.Bandwidth, 10)
				}
				formats = append(formats, media.Format{
					FormatID:  tagged(formatID, suffix),
					URL:       manifestURL,
					Ext:       "mp4",
					Protocol:  "dash",
					Bandwidth: rep.Bandwidth,
					Width:     rep.Width,
					Height:    rep.Height,
				})
			}
		}
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("MPD contains no video representations")
	}
	return formats, nil
}
