package storage

import (
	"context"
	"errors"

	"video_search_web/pkg"
)

// ErrConflict is returned when an update kept losing to concurrent writers
var ErrConflict = errors.New("page state update conflict")

// StatsEntry is the per-session stats panel state of one page view.
// Loading and Error are never set together. LoadingSince is the unix time
// the current fetch started.
type StatsEntry struct {
	Response     *pkg.StatsResponse `json:"response,omitempty"`
	Open         bool               `json:"open"`
	Loading      bool               `json:"loading"`
	LoadingSince int64              `json:"loading_since,omitempty"`
	Error        string             `json:"error,omitempty"`
}

// Cached reports whether the stats were already fetched
func (e StatsEntry) Cached() bool {
	return e.Response != nil
}

// PageState is everything one page view owns: the query, both result
// columns, the search generation counters and the stats panels.
type PageState struct {
	Query        string                `json:"query"`
	TextResults  []pkg.SearchResult    `json:"text_results"`
	ImageResults []pkg.SearchResult    `json:"image_results"`
	Issued       uint64                `json:"issued"`
	Applied      uint64                `json:"applied"`
	Stats        map[string]StatsEntry `json:"stats"`
	CreatedAt    int64                 `json:"created_at"`
	UpdatedAt    int64                 `json:"updated_at"`
}

// Clone returns a copy that shares nothing mutable with s. Fetched stats
// responses are treated as immutable and shared.
func (s PageState) Clone() PageState {
	out := s
	out.TextResults = append([]pkg.SearchResult(nil), s.TextResults...)
	out.ImageResults = append([]pkg.SearchResult(nil), s.ImageResults...)
	out.Stats = make(map[string]StatsEntry, len(s.Stats))
	for k, v := range s.Stats {
		out.Stats[k] = v
	}
	return out
}

// Entry returns the stats entry of a session (zero value when absent)
func (s PageState) Entry(sessionID string) StatsEntry {
	return s.Stats[sessionID]
}

// WithEntry returns a copy of s with the entry of sessionID replaced
func (s PageState) WithEntry(sessionID string, e StatsEntry) PageState {
	out := s.Clone()
	out.Stats[sessionID] = e
	return out
}

// UpdateFunc derives the next state from the current one. Returning an
// error aborts the update and leaves the stored state untouched.
type UpdateFunc func(current PageState) (PageState, error)

// Store keeps page states keyed by page id. Update is atomic per page and
// replaces the stored value wholesale.
type Store interface {
	Load(ctx context.Context, pageID string) (PageState, error)
	Update(ctx context.Context, pageID string, fn UpdateFunc) (PageState, error)
	Close() error
}

func newPageState(now int64) PageState {
	return PageState{
		Stats:     make(map[string]StatsEntry),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
