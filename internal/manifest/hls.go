package manifest

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"svtdl/internal/media"
)

// HLS fetches an HLS master playlist and returns one format per
// EXT-X-STREAM-INF variant. ext overrides the container on every
// variant (SVT serves fMP4 segments behind .m3u8 URLs); live selects
// the refreshing-playlist protocol for the downstream downloader.
func (d *Decoder) HLS(manifestURL, id, formatID, ext string, live bool) ([]media.Format, error) {
	body, err := d.fetch.HTML(manifestURL, id)
	if err != nil {
		return nil, fmt.Errorf("fetching HLS manifest: %w", err)
	}
	return parseHLSMaster(body, manifestURL, formatID, ext, live)
}

func parseHLSMaster(body, manifestURL, formatID, ext string, live bool) ([]media.Format, error) {
	if !strings.HasPrefix(strings.TrimSpace(body), "#EXTM3U") {
		return nil, fmt.Errorf("not an m3u8 playlist")
	}

	protocol := "m3u8_native"
	if live {
		protocol = "m3u8"
	}

	var (
		formats []media.Format
		pending *media.Format
	)
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "#EXT-X-STREAM-INF:"):
			attrs := parseAttrList(strings.TrimPrefix(line, "#EXT-X-STREAM-INF:"))
			f := media.Format{
				Ext:      ext,
				Protocol: protocol,
			}
			if bw, err := strconv.ParseInt(attrs["BANDWIDTH"], 10, 64); err == nil {
				f.Bandwidth = bw
			}
			if res := attrs["RESOLUTION"]; res != "" {
				if w, h, ok := parseResolution(res); ok {
					f.Width, f.Height = w, h
				}
			}
			suffix := strconv.FormatInt(f.Bandwidth/1000, 10)
			if f.Bandwidth == 0 {
				suffix = strconv.Itoa(len(formats))
			}
			f.FormatID = tagged(formatID, suffix)
			pending = &f
		case line == "" || strings.HasPrefix(line, "#"):
			// tag or blank, not a variant URI
		default:
			if pending != nil {
				pending.URL = resolveRef(manifestURL, line)
				formats = append(formats, *pending)
				pending = nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning playlist: %w", err)
	}

	// A media playlist (no variants) still plays as a single format.
	if len(formats) == 0 {
		formats = append(formats, media.Format{
			FormatID: tagged(formatID, "0"),
			URL:      manifestURL,
			Ext:      ext,
			Protocol: protocol,
		})
	}
	return formats, nil
}

// parseAttrList splits an HLS attribute list, respecting quoted values
// that may contain commas (e.g. CODECS="avc1.4d401f,mp4a.40.2").
func parseAttrList(s string) map[string]string {
	attrs := make(map[string]string)
	var (
		key      string
		value    strings.Builder
		inQuotes bool
		inValue  bool
	)
	flush := func() {
		if key != "" {
			attrs[key] = value.String()
		}
		key = ""
		value.Reset()
		inValue = false
	}
	var keyBuf strings.Builder
	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == '=' && !inQuotes && !inValue:
			key = strings.TrimSpace(keyBuf.String())
			keyBuf.Reset()
			inValue = true
		case r == ',' && !inQuotes:
			flush()
		case inValue:
			value.WriteRune(r)
		default:
			keyBuf.WriteRune(r)
		}
	}
	flush()
	return attrs
}

func parseResolution(s string) (w, h int, ok bool) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, err1 := strconv.Atoi(parts[0])
	h, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return w, h, true
}
