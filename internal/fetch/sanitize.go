package fetch

import (
	"fmt"
	"net/url"
	"regexp"
)

// validIDPattern matches SVT content ids: alphanumerics plus hyphens,
// e.g. "2900353", "KyVERRZ", "1376446-003A".
var validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// ValidateURL checks that a URL is well-formed and uses http or https.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// ValidateID checks that a content id contains only safe characters
// before it is interpolated into an endpoint path.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("id cannot be empty")
	}
	if len(id) > 256 {
		return fmt.Errorf("id too long: %d characters", len(id))
	}
	if !validIDPattern.MatchString(id) {
		return fmt.Errorf("id contains invalid characters: %q", id)
	}
	return nil
}
