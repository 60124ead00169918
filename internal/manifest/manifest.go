// Package manifest decodes adaptive-streaming manifests (HLS, DASH,
// HDS) into playable formats. Decoders fetch the manifest themselves
// through the shared fetch client; callers treat failures as non-fatal
// and simply skip the reference.
package manifest

import (
	"net/url"
)

// Fetcher is the subset of the fetch client the decoders need.
type Fetcher interface {
	HTML(url, id string) (string, error)
}

// Decoder turns manifest URLs into format lists.
type Decoder struct {
	fetch Fetcher
}

// New creates a Decoder on top of a fetch client.
func New(f Fetcher) *Decoder {
	return &Decoder{fetch: f}
}

// resolveRef resolves a possibly-relative reference against the
// manifest's own URL.
func resolveRef(manifestURL, ref string) string {
	base, err := url.Parse(manifestURL)
	if err != nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

// tagged builds a variant format id from the reference's player type
// and a per-variant suffix, the naming SVT endpoints use throughout.
func tagged(formatID, suffix string) string {
	if suffix == "" {
		return formatID
	}
	if formatID == "" {
		return suffix
	}
	return formatID + "-" + suffix
}
