package svt

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"svtdl/internal/media"
)

// pageURLRe matches generic svt.se article paths.
var pageURLRe = regexp.MustCompile(`^https?://(?:www\.)?svt\.se/((?:[^/]+/)*([^/?&#]+))`)

const pageAPIEndpoint = "https://api.svt.se/nss-api/page/"

// videoNodeTypes are the structured-content types that reference an
// embedded video.
var videoNodeTypes = map[string]bool{
	"VIDEOCLIP":    true,
	"VIDEOEPISODE": true,
}

// contentNode is one entry of an article's media list or structured
// body. The id may arrive as a number.
type contentNode struct {
	Type  string `json:"_type"`
	Image struct {
		SvtID json.RawMessage `json:"svtId"`
	} `json:"image"`
}

// PageExtractor resolves a generic article page into a playlist of the
// videos embedded in it.
type PageExtractor struct {
	fetch Fetcher

	prior []interface{ Suitable(string) bool }
}

// NewPageExtractor creates the article-page extractor. prior lists the
// extractors whose URL claims take precedence.
func NewPageExtractor(f Fetcher, prior ...interface{ Suitable(string) bool }) *PageExtractor {
	return &PageExtractor{fetch: f, prior: prior}
}

// Key returns the registry identifier for this extractor.
func (e *PageExtractor) Key() string { return "svt:page" }

// Suitable reports whether url is an article page not claimed by a
// higher-priority extractor.
func (e *PageExtractor) Suitable(url string) bool {
	for _, p := range e.prior {
		if p.Suitable(url) {
			return false
		}
	}
	return pageURLRe.MatchString(url)
}

// Extract fetches the article's page-content JSON and collects every
// embedded video reference, in encounter order, duplicates included.
func (e *PageExtractor) Extract(rawURL string) (*Result, error) {
	m := pageURLRe.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, &ExtractionError{ID: rawURL, Reason: "not an article URL"}
	}
	path, displayID := m[1], m[2]

	query := url.Values{"q": []string{"articles"}}
	body, err := e.fetch.JSON(pageAPIEndpoint+path, displayID, query, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Articles struct {
			Content []json.RawMessage `json:"content"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ExtractionError{ID: displayID, Reason: fmt.Sprintf("parsing page response: %v", err)}
	}
	if len(resp.Articles.Content) == 0 {
		return nil, &ExtractionError{ID: displayID, Reason: "page has no articles"}
	}

	var article struct {
		ID             json.RawMessage `json:"id"`
		Title          string          `json:"title"`
		Media          []contentNode   `json:"media"`
		StructuredBody []struct {
			Content *contentNode `json:"content"`
		} `json:"structuredBody"`
	}
	if err := json.Unmarshal(resp.Articles.Content[0], &article); err != nil {
		return nil, &ExtractionError{ID: displayID, Reason: fmt.Sprintf("parsing article: %v", err)}
	}

	var entries []media.Entry
	process := func(node *contentNode) {
		if node == nil || !videoNodeTypes[node.Type] {
			return
		}
		videoID := coerceString(node.Image.SvtID)
		if videoID == "" {
			return
		}
		entries = append(entries, media.Entry{
			ID:        videoID,
			URL:       "svt:" + videoID,
			Extractor: "svt:play",
		})
	}

	for i := range article.Media {
		process(&article.Media[i])
	}
	for _, obj := range article.StructuredBody {
		process(obj.Content)
	}

	return &Result{Playlist: &media.Playlist{
		ID:      coerceString(article.ID),
		Title:   strings.TrimSpace(article.Title),
		Entries: entries,
	}}, nil
}
