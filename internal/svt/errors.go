package svt

import (
	"fmt"
	"strings"
)

// GeoRestrictedError reports content that the provider blocks outside
// specific regions. It is raised only when no format at all could be
// resolved and the payload's geo-block flag is set.
type GeoRestrictedError struct {
	ID        string
	Countries []string
	Msg       string
}

func (e *GeoRestrictedError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = "content is geo-restricted"
	}
	if len(e.Countries) > 0 {
		msg += " (available in: " + strings.Join(e.Countries, ", ") + ")"
	}
	return fmt.Sprintf("%s: %s", e.ID, msg)
}

// ExtractionError reports a hard extraction failure: a required id
// that no fallback strategy could locate, or a required remote
// document that is missing or malformed.
type ExtractionError struct {
	ID     string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %s", e.ID, e.Reason)
}
