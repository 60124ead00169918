package svt

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"

	"svtdl/internal/fetch"
	"svtdl/internal/media"
)

var (
	// playURLRe matches both the opaque internal reference form
	// (svt:<id>) and play/archive page URLs.
	playURLRe = regexp.MustCompile(`^(?:svt:([^/?#&]+)|https?://(?:www\.)?(?:svtplay|oppetarkiv)\.se/(?:video|klipp|kanaler)/([^/?#&]+))`)

	// svtplayStoreRe matches the embedded JSON blob svtplay pages
	// assign to a well-known client-side global.
	svtplayStoreRe = regexp.MustCompile(`root\s*\[\s*["']_*svtplay["']\s*\]\s*=\s*(\{.+?\})\s*;\s*\n`)

	// svtIDPatterns are the ordered fallback strategies for digging a
	// content id out of raw page HTML.
	svtIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`<video[^>]+data-video-id=["']([\da-zA-Z-]+)`),
		regexp.MustCompile(`["']videoSvtId["']\s*:\s*["']([\da-zA-Z-]+)`),
		regexp.MustCompile(`"content"\s*:\s*\{.*?"id"\s*:\s*"([\da-zA-Z-]+)"`),
		regexp.MustCompile(`["']svtId["']\s*:\s*["']([\da-zA-Z-]+)`),
	}

	// ogTitleSuffixRe strips the "| SVT Play" style suffix from page
	// titles.
	ogTitleSuffixRe = regexp.MustCompile(`\s*\|.*$`)
)

const videoAPIEndpoint = "https://api.svt.se/videoplayer-api/video/"

// playData is the slice of the page's client-side store tree the
// extractor reads. Ids may arrive as numbers, hence the raw messages.
type playData struct {
	Context struct {
		Dispatcher struct {
			Stores struct {
				VideoTitlePageStore struct {
					Data struct {
						Video json.RawMessage `json:"video"`
					} `json:"data"`
				} `json:"VideoTitlePageStore"`
				MetaStore struct {
					Title string `json:"title"`
				} `json:"MetaStore"`
			} `json:"stores"`
		} `json:"dispatcher"`
	} `json:"context"`
	Statistics struct {
		DataLake struct {
			Content struct {
				ID json.RawMessage `json:"id"`
			} `json:"content"`
		} `json:"dataLake"`
	} `json:"statistics"`
	VideoPage struct {
		Video json.RawMessage `json:"video"`
	} `json:"videoPage"`
}

// PlayExtractor resolves svtplay.se / oppetarkiv.se pages and bare
// svt:<id> references to a single media item.
type PlayExtractor struct {
	fetch     Fetcher
	dec       ManifestDecoder
	geoHeader http.Header
}

// NewPlayExtractor creates the play-page extractor. geoProxyIP, when
// set, is forwarded to the video API so geo checks see a Swedish
// client.
func NewPlayExtractor(f Fetcher, d ManifestDecoder, geoProxyIP string) *PlayExtractor {
	var header http.Header
	if geoProxyIP != "" {
		header = http.Header{"X-Forwarded-For": []string{geoProxyIP}}
	}
	return &PlayExtractor{fetch: f, dec: d, geoHeader: header}
}

// Key returns the registry identifier for this extractor.
func (e *PlayExtractor) Key() string { return "svt:play" }

// Suitable reports whether url is a play page, archive page or svt:
// reference.
func (e *PlayExtractor) Suitable(url string) bool {
	return playURLRe.MatchString(url)
}

// Extract resolves url to a single item, trying the page's embedded
// store JSON first and falling back to id discovery plus the video
// API.
func (e *PlayExtractor) Extract(url string) (*Result, error) {
	m := playURLRe.FindStringSubmatch(url)
	if m == nil {
		return nil, &ExtractionError{ID: url, Reason: "not a play URL"}
	}
	svtID, slug := m[1], m[2]

	if svtID != "" {
		item, err := e.extractByID(svtID, "")
		if err != nil {
			return nil, err
		}
		return &Result{Item: item}, nil
	}

	webpage, err := e.fetch.HTML(url, slug)
	if err != nil {
		return nil, err
	}

	data := parseSvtplayStore(webpage, slug)

	var item *media.Item
	if data != nil {
		if raw := decodeVideoInfo(data.Context.Dispatcher.Stores.VideoTitlePageStore.Data.Video); raw != nil {
			resolved, err := extractVideo(e.dec, raw, slug)
			if err != nil {
				return nil, err
			}
			resolved.Title = data.Context.Dispatcher.Stores.MetaStore.Title
			adjustLiveTitle(resolved)
			item = resolved
		}
		if id := rawString(data.Statistics.DataLake.Content.ID); id != "" {
			svtID = id
		}
	}

	if item == nil {
		if svtID == "" {
			svtID = searchSvtID(webpage)
		}
		if svtID == "" {
			return nil, &ExtractionError{ID: slug, Reason: "unable to locate a video id on the page"}
		}
		resolved, err := e.extractByID(svtID, webpage)
		if err != nil {
			return nil, err
		}
		item = resolved
	}

	// The page-specific video object carries fresher metadata than the
	// API and wins on overlapping fields.
	if data != nil {
		if raw := decodeVideoInfo(data.VideoPage.Video); raw != nil {
			extractMetadata(item, raw)
		}
	}

	if item.Thumbnail == "" {
		item.Thumbnail = ogContent(webpage, "og:image")
	}

	return &Result{Item: item}, nil
}

// extractByID resolves a bare content id through the video API. When
// the API payload has no usable title, webpage (if given) backfills it
// from document metadata.
func (e *PlayExtractor) extractByID(svtID, webpage string) (*media.Item, error) {
	if err := fetch.ValidateID(svtID); err != nil {
		return nil, &ExtractionError{ID: svtID, Reason: fmt.Sprintf("invalid content id: %v", err)}
	}

	body, err := e.fetch.JSON(videoAPIEndpoint+svtID, svtID, nil, e.geoHeader)
	if err != nil {
		return nil, err
	}

	raw := decodeVideoInfo(body)
	if raw == nil {
		return nil, &ExtractionError{ID: svtID, Reason: "video API returned no video object"}
	}

	item, err := extractVideo(e.dec, raw, svtID)
	if err != nil {
		return nil, err
	}

	if item.Title == "" {
		title := item.Episode
		if title == "" {
			title = item.Series
		}
		if title == "" && webpage != "" {
			title = ogTitleSuffixRe.ReplaceAllString(ogContent(webpage, "og:title"), "")
		}
		if title == "" {
			title = svtID
		}
		item.Title = title
	}
	adjustLiveTitle(item)
	return item, nil
}

// parseSvtplayStore locates and leniently parses the embedded store
// blob; absence or malformed JSON yields nil, never an error.
func parseSvtplayStore(webpage, id string) *playData {
	m := svtplayStoreRe.FindStringSubmatch(webpage)
	if m == nil {
		return nil
	}
	var data playData
	if err := json.Unmarshal([]byte(m[1]), &data); err != nil {
		log.WithField("id", id).Debugf("malformed embedded store JSON: %v", err)
		return nil
	}
	return &data
}

// searchSvtID runs the fallback id patterns against page HTML in fixed
// order, returning the first capture.
func searchSvtID(webpage string) string {
	for _, re := range svtIDPatterns {
		if m := re.FindStringSubmatch(webpage); m != nil {
			return m[1]
		}
	}
	return ""
}

// ogContent reads an Open Graph meta tag's content attribute from page
// HTML.
func ogContent(webpage, property string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(webpage))
	if err != nil {
		return ""
	}
	sel := fmt.Sprintf(`meta[property=%q], meta[name=%q]`, property, property)
	return strings.TrimSpace(doc.Find(sel).First().AttrOr("content", ""))
}

// adjustLiveTitle rewrites the title of live items to the shared
// currently-live convention.
func adjustLiveTitle(item *media.Item) {
	if item.IsLive {
		item.Title = liveTitle(item.Title)
	}
}
