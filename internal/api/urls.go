// Package api builds the retrieval backend endpoint URLs.
package api

import (
	"net/url"
	"strings"
)

// URLs builds fully-qualified backend endpoint URLs from a fixed base
type URLs struct {
	base string
}

// NewURLs returns a builder rooted at baseURL. Trailing slashes are dropped.
func NewURLs(baseURL string) URLs {
	return URLs{base: strings.TrimRight(baseURL, "/")}
}

// Base returns the normalised base URL
func (u URLs) Base() string {
	return u.base
}

// SearchText is the text → text search endpoint
func (u URLs) SearchText(query string) string {
	return u.base + "/api/search/text?q=" + escapeQuery(query)
}

// SearchImage is the text → image search endpoint
func (u URLs) SearchImage(query string) string {
	return u.base + "/api/search/image?q=" + escapeQuery(query)
}

// VideoStream is the mp4 stream of one camera within a session
func (u URLs) VideoStream(sessionID, cameraID string) string {
	return u.base + "/api/video/" + url.PathEscape(sessionID) + "/" + url.PathEscape(cameraID)
}

// Stats is the per-session statistics endpoint
func (u URLs) Stats(sessionID string) string {
	return u.base + "/api/stats/" + url.PathEscape(sessionID)
}

// escapeQuery percent-encodes a query value, spaces included (%20, not +)
func escapeQuery(q string) string {
	return strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
}
