package svt

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"

	"svtdl/internal/fetch"
	"svtdl/internal/media"
)

// seriesURLRe matches bare series pages on svtplay.se, optionally with
// a tab=<season> selector.
var seriesURLRe = regexp.MustCompile(`^https?://(?:www\.)?svtplay\.se/([^/?&#]+)(?:.+?\btab=([^&#]+))?`)

const graphqlEndpoint = "https://api.svt.se/contento/graphql"

// seriesQuery asks for the series' season groups and each episode's
// content id, nothing more; episodes are resolved lazily later.
const seriesQuery = `{
  listablesBySlug(slugs: ["%s"]) {
    associatedContent(include: [productionPeriod, season]) {
      items {
        item {
          ... on Episode {
            videoSvtId
          }
        }
      }
      id
      name
    }
    id
    longDescription
    name
    shortDescription
  }
}`

// seasonGroup is one production-period/season bucket of a series.
type seasonGroup struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []struct {
		Item struct {
			VideoSvtID json.RawMessage `json:"videoSvtId"`
		} `json:"item"`
	} `json:"items"`
}

// SeriesExtractor resolves a series page, optionally narrowed to one
// season, into a playlist of forward references.
type SeriesExtractor struct {
	fetch Fetcher

	// Matchers with higher claim priority; any URL they accept is not
	// a series URL.
	prior []interface{ Suitable(string) bool }
}

// NewSeriesExtractor creates the series extractor. prior lists the
// extractors whose URL claims take precedence.
func NewSeriesExtractor(f Fetcher, prior ...interface{ Suitable(string) bool }) *SeriesExtractor {
	return &SeriesExtractor{fetch: f, prior: prior}
}

// Key returns the registry identifier for this extractor.
func (e *SeriesExtractor) Key() string { return "svt:series" }

// Suitable reports whether url is a series page not claimed by a
// higher-priority extractor.
func (e *SeriesExtractor) Suitable(url string) bool {
	for _, p := range e.prior {
		if p.Suitable(url) {
			return false
		}
	}
	return seriesURLRe.MatchString(url)
}

// Extract queries the GraphQL endpoint for the series and builds a
// playlist of svt:<id> forward references without fetching a single
// episode.
func (e *SeriesExtractor) Extract(rawURL string) (*Result, error) {
	m := seriesURLRe.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, &ExtractionError{ID: rawURL, Reason: "not a series URL"}
	}
	slug, seasonID := m[1], m[2]

	// The slug is interpolated into the query template, so it must not
	// carry quoting or other surprises.
	if err := fetch.ValidateID(slug); err != nil {
		return nil, &ExtractionError{ID: slug, Reason: fmt.Sprintf("invalid series slug: %v", err)}
	}

	query := url.Values{"query": []string{fmt.Sprintf(seriesQuery, slug)}}
	body, err := e.fetch.JSON(graphqlEndpoint, slug, query, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data struct {
			ListablesBySlug []struct {
				AssociatedContent []json.RawMessage `json:"associatedContent"`
				ID                json.RawMessage   `json:"id"`
				LongDescription   string            `json:"longDescription"`
				Name              string            `json:"name"`
				ShortDescription  string            `json:"shortDescription"`
			} `json:"listablesBySlug"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ExtractionError{ID: slug, Reason: fmt.Sprintf("parsing series response: %v", err)}
	}
	if len(resp.Data.ListablesBySlug) == 0 {
		return nil, &ExtractionError{ID: slug, Reason: "series not found"}
	}
	series := resp.Data.ListablesBySlug[0]

	var (
		seasonName string
		entries    []media.Entry
	)
	for _, rawSeason := range series.AssociatedContent {
		var season seasonGroup
		if err := json.Unmarshal(rawSeason, &season); err != nil {
			continue
		}
		if seasonID != "" {
			if season.ID != seasonID {
				continue
			}
			seasonName = season.Name
		}
		for _, it := range season.Items {
			contentID := rawString(it.Item.VideoSvtID)
			if contentID == "" {
				continue
			}
			entries = append(entries, media.Entry{
				ID:        contentID,
				URL:       "svt:" + contentID,
				Extractor: "svt:play",
			})
		}
	}

	title := series.Name
	if seasonName == "" {
		seasonName = seasonID
	}
	switch {
	case title != "" && seasonName != "":
		title = title + " - " + seasonName
	case seasonID != "":
		title = seasonID
	}

	playlistID := seasonID
	if playlistID == "" {
		playlistID = coerceString(series.ID)
	}

	description := series.LongDescription
	if description == "" {
		description = series.ShortDescription
	}

	return &Result{Playlist: &media.Playlist{
		ID:          playlistID,
		Title:       title,
		Description: description,
		Entries:     entries,
	}}, nil
}
