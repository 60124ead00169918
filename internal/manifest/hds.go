package manifest

import (
	"encoding/xml"
	"fmt"
	"strconv"

	"svtdl/internal/media"
)

// F4M manifest shape: one <media> node per bitrate.
type f4m struct {
	BaseURL string     `xml:"baseURL"`
	Media   []f4mMedia `xml:"media"`
}

type f4mMedia struct {
	URL     string `xml:"url,attr"`
	Href    string `xml:"href,attr"`
	Bitrate int64  `xml:"bitrate,attr"` // kbit/s
	Width   int    `xml:"width,attr"`
	Height  int    `xml:"height,attr"`
}

// HDS fetches an Adobe F4M manifest and returns one format per media
// node. The caller appends the hdcore parameter the CDN requires before
// handing the URL over.
func (d *Decoder) HDS(manifestURL, id, formatID string) ([]media.Format, error) {
	body, err := d.fetch.HTML(manifestURL, id)
	if err != nil {
		return nil, fmt.Errorf("fetching F4M manifest: %w", err)
	}
	return parseF4M(body, manifestURL, formatID)
}

func parseF4M(body, manifestURL, formatID string) ([]media.Format, error) {
	var doc f4m
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("parsing F4M: %w", err)
	}
	if len(doc.Media) == 0 {
		return nil, fmt.Errorf("F4M contains no media nodes")
	}

	var formats []media.Format
	for i, m := range doc.Media {
		suffix := strconv.FormatInt(m.Bitrate, 10)
		if m.Bitrate == 0 {
			suffix = strconv.Itoa(i)
		}
		// Fragment addressing happens inside the manifest, so the
		// format URL stays the manifest URL itself.
		formats = append(formats, media.Format{
			FormatID:  tagged(formatID, suffix),
			URL:       manifestURL,
			Ext:       "flv",
			Protocol:  "f4m",
			Bandwidth: m.Bitrate * 1000,
			Width:     m.Width,
			Height:    m.Height,
		})
	}
	return formats, nil
}
