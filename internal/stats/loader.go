// Package stats lazily loads per-session statistics into a page view and
// toggles their panels.
package stats

import (
	"context"
	"fmt"
	"time"

	"video_search_web/internal/backend"
	"video_search_web/internal/storage"
	"video_search_web/pkg"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Fetcher is the part of the retrieval service the loader needs
type Fetcher interface {
	Stats(ctx context.Context, sessionID string) (*pkg.StatsResponse, error)
}

// staleLoading is how long a loading entry blocks new fetches; an older one
// is treated as abandoned and fetched again
const staleLoading = 30 * time.Second

// Loader fetches a session's stats at most once per page view
type Loader struct {
	fetcher Fetcher
	store   storage.Store
	group   singleflight.Group
	now     func() time.Time
	log     zerolog.Logger
}

// NewLoader creates a loader that keeps its entries in store
func NewLoader(fetcher Fetcher, store storage.Store, log zerolog.Logger) *Loader {
	return &Loader{
		fetcher: fetcher,
		store:   store,
		now:     time.Now,
		log:     log.With().Str("component", "stats").Logger(),
	}
}

type action int

const (
	actionNone action = iota
	actionToggled
	actionFetch
)

// Toggle flips the stats panel of sessionID. Cached stats are shown or
// hidden without a request; otherwise the stats are fetched and the panel
// opens on success. A failure is stored on the entry and the panel stays
// closed.
func (l *Loader) Toggle(ctx context.Context, pageID, sessionID string) (storage.StatsEntry, error) {
	if sessionID == "" {
		return storage.StatsEntry{}, fmt.Errorf("session ID cannot be empty")
	}

	act := actionNone
	now := l.now()
	st, err := l.store.Update(ctx, pageID, func(st storage.PageState) (storage.PageState, error) {
		e := st.Entry(sessionID)
		switch {
		case e.Cached():
			act = actionToggled
			e.Open = !e.Open
		case e.Loading && now.Sub(time.Unix(e.LoadingSince, 0)) < staleLoading:
			act = actionNone
			return st, nil
		default:
			if e.Loading {
				l.log.Warn().Str("page", pageID).Str("session_id", sessionID).Msg("retrying abandoned stats fetch")
			}
			act = actionFetch
			e.Loading = true
			e.LoadingSince = now.Unix()
			e.Error = ""
		}
		return st.WithEntry(sessionID, e), nil
	})
	if err != nil {
		return storage.StatsEntry{}, fmt.Errorf("failed to update stats entry: %w", err)
	}
	if act != actionFetch {
		return st.Entry(sessionID), nil
	}

	return l.fetch(ctx, pageID, sessionID)
}

func (l *Loader) fetch(ctx context.Context, pageID, sessionID string) (storage.StatsEntry, error) {
	l.log.Debug().Str("page", pageID).Str("session_id", sessionID).Msg("fetching stats")

	// the flight is shared across page views, so one caller going away must
	// not cancel it for the others
	v, fetchErr, shared := l.group.Do(sessionID, func() (any, error) {
		return l.fetcher.Stats(context.WithoutCancel(ctx), sessionID)
	})
	resp, _ := v.(*pkg.StatsResponse)
	if fetchErr == nil && resp == nil {
		fetchErr = fmt.Errorf("empty stats response for %s", sessionID)
	}

	if fetchErr != nil {
		l.log.Warn().Err(fetchErr).Str("page", pageID).Str("session_id", sessionID).Msg("stats fetch failed")
	} else if shared {
		l.log.Debug().Str("session_id", sessionID).Msg("stats fetch shared with another page")
	}

	// loading is cleared on every path, even if the request was cancelled
	st, err := l.store.Update(context.WithoutCancel(ctx), pageID, func(st storage.PageState) (storage.PageState, error) {
		e := st.Entry(sessionID)
		e.Loading = false
		e.LoadingSince = 0
		if fetchErr != nil {
			e.Error = backend.ErrorMessage(fetchErr)
			e.Open = false
		} else {
			e.Response = resp
			e.Error = ""
			e.Open = true
		}
		return st.WithEntry(sessionID, e), nil
	})
	if err != nil {
		return storage.StatsEntry{}, fmt.Errorf("failed to store stats entry: %w", err)
	}
	return st.Entry(sessionID), nil
}
