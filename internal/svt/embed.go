package svt

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// embedURLRe matches the legacy widget-embed links still found in old
// svt.se articles.
var embedURLRe = regexp.MustCompile(`^https?://(?:www\.)?svt\.se/wd\?(?:.*?&)?widgetId=(\d+)&.*?\barticleId=(\d+)`)

const embedEndpoint = "https://www.svt.se/wd?widgetId=%s&articleId=%s&format=json&type=embed&output=json"

// EmbedExtractor resolves legacy widget-embed URLs carrying widgetId
// and articleId query parameters.
type EmbedExtractor struct {
	fetch Fetcher
	dec   ManifestDecoder
}

// NewEmbedExtractor creates the widget-embed extractor.
func NewEmbedExtractor(f Fetcher, d ManifestDecoder) *EmbedExtractor {
	return &EmbedExtractor{fetch: f, dec: d}
}

// Key returns the registry identifier for this extractor.
func (e *EmbedExtractor) Key() string { return "svt:embed" }

// Suitable reports whether url is a widget-embed link.
func (e *EmbedExtractor) Suitable(url string) bool {
	return embedURLRe.MatchString(url)
}

// ExtractEmbedURL scans arbitrary page HTML for the first iframe or
// anchor pointing at a widget embed, returning its URL or "".
func ExtractEmbedURL(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	var found string
	doc.Find("iframe[src], a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		target := s.AttrOr("src", "")
		if target == "" {
			target = s.AttrOr("href", "")
		}
		// The full attribute value is the embed URL; trailing query
		// parameters stay attached.
		if embedURLRe.MatchString(target) {
			found = target
			return false
		}
		return true
	})
	return found
}

// Extract resolves a widget-embed URL to a single item. The articleId
// becomes the canonical content id and the document's context title
// overrides whatever the video payload carried.
func (e *EmbedExtractor) Extract(url string) (*Result, error) {
	m := embedURLRe.FindStringSubmatch(url)
	if m == nil {
		return nil, &ExtractionError{ID: url, Reason: "not a widget embed URL"}
	}
	widgetID, articleID := m[1], m[2]

	body, err := e.fetch.JSON(fmt.Sprintf(embedEndpoint, widgetID, articleID), articleID, nil, nil)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Video   json.RawMessage `json:"video"`
		Context struct {
			Title string `json:"title"`
		} `json:"context"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ExtractionError{ID: articleID, Reason: fmt.Sprintf("parsing embed document: %v", err)}
	}

	raw := decodeVideoInfo(doc.Video)
	if raw == nil {
		return nil, &ExtractionError{ID: articleID, Reason: "embed document has no video object"}
	}

	item, err := extractVideo(e.dec, raw, articleID)
	if err != nil {
		return nil, err
	}
	if doc.Context.Title != "" {
		item.Title = doc.Context.Title
	}
	return &Result{Item: item}, nil
}
