package svt

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"testing"

	"svtdl/internal/media"
)

// fakeFetcher serves canned responses keyed by URL (with encoded query
// when one was passed) and records every request.
type fakeFetcher struct {
	json map[string]string
	html map[string]string

	jsonCalls  []string
	htmlCalls  []string
	lastHeader http.Header
}

func (f *fakeFetcher) JSON(rawURL, id string, query url.Values, header http.Header) ([]byte, error) {
	full := rawURL
	if len(query) > 0 {
		full = rawURL + "?" + query.Encode()
	}
	f.jsonCalls = append(f.jsonCalls, full)
	f.lastHeader = header
	if body, ok := f.json[full]; ok {
		return []byte(body), nil
	}
	if body, ok := f.json[rawURL]; ok {
		return []byte(body), nil
	}
	return nil, fmt.Errorf("%s: no canned response for %s", id, full)
}

func (f *fakeFetcher) HTML(rawURL, id string) (string, error) {
	f.htmlCalls = append(f.htmlCalls, rawURL)
	if body, ok := f.html[rawURL]; ok {
		return body, nil
	}
	return "", fmt.Errorf("%s: no canned page for %s", id, rawURL)
}

// hlsCall records the arguments of one HLS decode request.
type hlsCall struct {
	url      string
	formatID string
	ext      string
	live     bool
}

// fakeDecoder returns fixed format lists and records decode requests.
type fakeDecoder struct {
	hlsFormats  []media.Format
	hlsErr      error
	hdsFormats  []media.Format
	hdsErr      error
	dashFormats []media.Format
	dashErr     error

	hlsCalls  []hlsCall
	hdsCalls  []string
	dashCalls []string
}

func (d *fakeDecoder) HLS(url, id, formatID, ext string, live bool) ([]media.Format, error) {
	d.hlsCalls = append(d.hlsCalls, hlsCall{url: url, formatID: formatID, ext: ext, live: live})
	return d.hlsFormats, d.hlsErr
}

func (d *fakeDecoder) HDS(url, id, formatID string) ([]media.Format, error) {
	d.hdsCalls = append(d.hdsCalls, url)
	return d.hdsFormats, d.hdsErr
}

func (d *fakeDecoder) DASH(url, id, formatID string) ([]media.Format, error) {
	d.dashCalls = append(d.dashCalls, url)
	return d.dashFormats, d.dashErr
}

// loadFixture reads a testdata file as a string.
func loadFixture(t *testing.T, filename string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + filename)
	if err != nil {
		t.Fatalf("reading test fixture %s: %v", filename, err)
	}
	return string(data)
}
