// Package svt extracts playable media metadata from svt.se, svtplay.se
// and oppetarkiv.se pages and APIs, normalizing it into the shared
// media types. Network transport and manifest decoding are injected
// collaborators so the extraction logic itself stays pure.
package svt

import (
	"net/http"
	"net/url"

	"svtdl/internal/media"
)

// Fetcher downloads remote documents on behalf of an extraction. The id
// is the content id the request belongs to, carried for error context.
type Fetcher interface {
	JSON(url, id string, query url.Values, header http.Header) ([]byte, error)
	HTML(url, id string) (string, error)
}

// ManifestDecoder turns adaptive-streaming manifest URLs into format
// lists. Decoder errors are treated as non-fatal by the callers.
type ManifestDecoder interface {
	HLS(url, id, formatID, ext string, live bool) ([]media.Format, error)
	HDS(url, id, formatID string) ([]media.Format, error)
	DASH(url, id, formatID string) ([]media.Format, error)
}

// Result is what an extractor produces: a single item or a playlist of
// forward references, never both.
type Result struct {
	Item     *media.Item
	Playlist *media.Playlist
}

// Extractor resolves URLs it declares itself suitable for.
type Extractor interface {
	// Key is the stable identifier forward references use to name this
	// extractor.
	Key() string
	Suitable(url string) bool
	Extract(url string) (*Result, error)
}
