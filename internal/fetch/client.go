// Package fetch provides the HTTP collaborator the extractors depend on:
// a hardened client plus JSON/HTML download helpers. Timeouts, headers
// and size limits all live here so the extraction core stays pure.
package fetch

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/121.0"

	// maxBodySize caps response reads; provider pages and API payloads
	// are well under this.
	maxBodySize = 10 * 1024 * 1024
)

// Client wraps an http.Client with the request shaping every SVT
// endpoint needs. The zero value is not usable; use New.
type Client struct {
	http      *http.Client
	userAgent string
}

// New creates a client with secure defaults and a tuned connection pool.
func New(userAgent string) *Client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		userAgent: userAgent,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}
}

// JSON fetches a JSON document. The id is the content id the request is
// made on behalf of, used only for error context and logging. Extra
// query parameters and headers are optional.
func (c *Client) JSON(rawURL, id string, query url.Values, header http.Header) ([]byte, error) {
	body, err := c.get(rawURL, id, query, header, "application/json")
	if err != nil {
		return nil, err
	}
	return body, nil
}

// HTML fetches a web page as text.
func (c *Client) HTML(rawURL, id string) (string, error) {
	body, err := c.get(rawURL, id, nil, nil, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) get(rawURL, id string, query url.Values, header http.Header, accept string) ([]byte, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("%s: invalid URL: %w", id, err)
	}

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", id, err)
	}

	if len(query) > 0 {
		q := req.URL.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	log.WithFields(log.Fields{"id": id, "url": req.URL.Redacted()}).Debug("fetching")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d for %s", id, resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", id, err)
	}
	return body, nil
}
