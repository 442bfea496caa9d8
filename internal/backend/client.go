// Package backend talks to the external retrieval service. Every response
// is validated here so callers only ever see well-formed records.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"video_search_web/internal/api"
	"video_search_web/pkg"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
)

// Client issues single-shot GET requests against the backend
type Client struct {
	urls api.URLs
	http *http.Client
	log  zerolog.Logger
}

// New creates a backend client. A nil httpClient gets a client with the
// given timeout (0 disables it).
func New(urls api.URLs, httpClient *http.Client, timeout time.Duration, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		urls: urls,
		http: httpClient,
		log:  log.With().Str("component", "backend").Logger(),
	}
}

// URLs exposes the endpoint builder the client was created with
func (c *Client) URLs() api.URLs {
	return c.urls
}

// SearchText runs a text → text search
func (c *Client) SearchText(ctx context.Context, query string) ([]pkg.SearchResult, error) {
	return c.search(ctx, c.urls.SearchText(query))
}

// SearchImage runs a text → image search
func (c *Client) SearchImage(ctx context.Context, query string) ([]pkg.SearchResult, error) {
	return c.search(ctx, c.urls.SearchImage(query))
}

// Stats fetches the statistics of one session
func (c *Client) Stats(ctx context.Context, sessionID string) (*pkg.StatsResponse, error) {
	body, err := c.get(ctx, c.urls.Stats(sessionID))
	if err != nil {
		return nil, err
	}

	var resp pkg.StatsResponse
	if err := sonic.ConfigStd.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode stats for %s: %w", sessionID, err)
	}
	if resp.SessionID == "" {
		resp.SessionID = sessionID
	}
	if !resp.Found {
		resp.Stats = nil
	}
	return &resp, nil
}

func (c *Client) search(ctx context.Context, endpoint string) ([]pkg.SearchResult, error) {
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	results, err := DecodeSearchResults(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode search response from %s: %w", endpoint, err)
	}
	return c.normalize(results), nil
}

// normalize drops records that cannot be keyed and fills in the stream URL
func (c *Client) normalize(results []pkg.SearchResult) []pkg.SearchResult {
	out := make([]pkg.SearchResult, 0, len(results))
	for _, r := range results {
		r.SessionID = strings.TrimSpace(r.SessionID)
		if r.SessionID == "" {
			c.log.Debug().Str("id", r.ID).Msg("dropping search result without session_id")
			continue
		}
		if r.VideoURL == "" {
			r.VideoURL = c.urls.VideoStream(r.SessionID, r.CameraID.String())
		}
		out = append(out, r)
	}
	return out
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", endpoint, err)
	}

	c.log.Debug().
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := truncate(strings.TrimSpace(string(body)), maxErrorBody)
		return nil, &StatusError{URL: endpoint, StatusCode: resp.StatusCode, Body: msg}
	}
	return body, nil
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// DecodeSearchResults accepts the canonical {"results": [...]} wrapper as
// well as a bare array. An empty body or null decodes to no results.
func DecodeSearchResults(body []byte) ([]pkg.SearchResult, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []pkg.SearchResult{}, nil
	}

	if body[0] == '[' {
		var results []pkg.SearchResult
		if err := sonic.ConfigStd.Unmarshal(body, &results); err != nil {
			return nil, err
		}
		if results == nil {
			results = []pkg.SearchResult{}
		}
		return results, nil
	}

	var wrapped pkg.SearchResponse
	if err := sonic.ConfigStd.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Results == nil {
		return []pkg.SearchResult{}, nil
	}
	return wrapped.Results, nil
}
