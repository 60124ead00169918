package svt

import (
	"svtdl/internal/media"
)

// Options configures extractor construction.
type Options struct {
	// GeoProxyIP, when set, is sent as X-Forwarded-For on video API
	// requests so the provider's geo check sees a Swedish client.
	GeoProxyIP string
}

// Registry is the ordered set of URL matchers. Resolution walks the
// extractors in registration order and the first suitable one claims
// the URL; the series and page extractors additionally reject URLs
// their higher-priority peers accept, so Suitable answers are mutually
// exclusive even outside the dispatcher.
type Registry struct {
	extractors []Extractor
	byKey      map[string]Extractor
}

// NewRegistry wires the four extractors in claim-priority order:
// widget embed, play page, series, article page.
func NewRegistry(f Fetcher, d ManifestDecoder, opts Options) *Registry {
	embed := NewEmbedExtractor(f, d)
	play := NewPlayExtractor(f, d, opts.GeoProxyIP)
	series := NewSeriesExtractor(f, embed, play)
	page := NewPageExtractor(f, embed)

	r := &Registry{byKey: make(map[string]Extractor)}
	for _, e := range []Extractor{embed, play, series, page} {
		r.extractors = append(r.extractors, e)
		r.byKey[e.Key()] = e
	}
	return r
}

// Resolve dispatches url to the first suitable extractor.
func (r *Registry) Resolve(url string) (*Result, error) {
	for _, e := range r.extractors {
		if e.Suitable(url) {
			return e.Extract(url)
		}
	}
	return nil, &ExtractionError{ID: url, Reason: "no extractor claims this URL"}
}

// ResolveEntry resolves a playlist forward reference through the
// extractor it names.
func (r *Registry) ResolveEntry(entry media.Entry) (*Result, error) {
	e, ok := r.byKey[entry.Extractor]
	if !ok {
		return nil, &ExtractionError{ID: entry.ID, Reason: "unknown extractor " + entry.Extractor}
	}
	return e.Extract(entry.URL)
}
