package mocks

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"video_search_web/internal/backend"
	"video_search_web/pkg"
)

var (
	ErrTextSearch  = errors.New("text search error")
	ErrImageSearch = errors.New("image search error")
	ErrStats       = errors.New("stats service error")
)

// SearchMock serves both search columns with a configurable delay and failure
type SearchMock struct {
	TextDelay  time.Duration
	ImageDelay time.Duration
	TextFail   bool
	ImageFail  bool
	Text       []pkg.SearchResult
	Image      []pkg.SearchResult

	// ByQuery overrides the delay per query, to force out-of-order responses
	ByQuery map[string]time.Duration

	TextCalls  atomic.Int32
	ImageCalls atomic.Int32
}

func (m *SearchMock) SearchText(ctx context.Context, query string) ([]pkg.SearchResult, error) {
	m.TextCalls.Add(1)
	if err := sleepCtx(ctx, m.delay(query, m.TextDelay)); err != nil {
		return nil, err
	}
	if m.TextFail {
		return nil, ErrTextSearch
	}
	return tag(m.Text, query), nil
}

func (m *SearchMock) SearchImage(ctx context.Context, query string) ([]pkg.SearchResult, error) {
	m.ImageCalls.Add(1)
	if err := sleepCtx(ctx, m.delay(query, m.ImageDelay)); err != nil {
		return nil, err
	}
	if m.ImageFail {
		return nil, ErrImageSearch
	}
	return tag(m.Image, query), nil
}

func (m *SearchMock) delay(query string, d time.Duration) time.Duration {
	if v, ok := m.ByQuery[query]; ok {
		return v
	}
	return d
}

// tag stamps the query into the summary so tests can tell responses apart
func tag(results []pkg.SearchResult, query string) []pkg.SearchResult {
	out := make([]pkg.SearchResult, len(results))
	for i, r := range results {
		r.VideoSummary = query
		out[i] = r
	}
	return out
}

// StatsMock answers stats requests from a fixed table and counts calls per session
type StatsMock struct {
	Delay time.Duration
	Fail  bool
	// FailStatus, when set, fails with a backend.StatusError carrying FailBody
	FailStatus int
	FailBody   string
	Responses  map[string]*pkg.StatsResponse

	mu    sync.Mutex
	calls map[string]int
}

func (m *StatsMock) Stats(ctx context.Context, sessionID string) (*pkg.StatsResponse, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[sessionID]++
	m.mu.Unlock()

	if err := sleepCtx(ctx, m.Delay); err != nil {
		return nil, err
	}
	if m.FailStatus != 0 {
		return nil, &backend.StatusError{URL: "/api/stats/" + sessionID, StatusCode: m.FailStatus, Body: m.FailBody}
	}
	if m.Fail {
		return nil, ErrStats
	}
	if resp, ok := m.Responses[sessionID]; ok {
		return resp, nil
	}
	return &pkg.StatsResponse{SessionID: sessionID, Found: false}, nil
}

// Calls returns how many times the stats of sessionID were requested
func (m *StatsMock) Calls(sessionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[sessionID]
}

// Results builds n search results with session ids prefix-0 .. prefix-(n-1)
func Results(prefix string, n int) []pkg.SearchResult {
	out := make([]pkg.SearchResult, n)
	for i := range out {
		id := prefix + "-" + strconv.Itoa(i)
		out[i] = pkg.SearchResult{
			SessionID: id,
			CameraID:  pkg.CameraID(strconv.Itoa(i % 4)),
			VideoURL:  "http://backend/api/video/" + id + "/0",
		}
	}
	return out
}

// sleepCtx waits for d or until ctx is done
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
