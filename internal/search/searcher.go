// Package search owns the query and the two result columns of a page view.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"video_search_web/internal/storage"
	"video_search_web/pkg"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Backend is the part of the retrieval service a search needs
type Backend interface {
	SearchText(ctx context.Context, query string) ([]pkg.SearchResult, error)
	SearchImage(ctx context.Context, query string) ([]pkg.SearchResult, error)
}

// errStale aborts the apply step without writing anything
var errStale = errors.New("stale search response")

// Result describes what a search did to the page
type Result struct {
	State      storage.PageState
	Generation uint64
	// Stale is set when a newer search was issued while this one was in
	// flight; its response was discarded.
	Stale bool
	// Err is the fetch failure, if any. Both columns were cleared.
	Err error
}

// Searcher runs searches and applies their outcome to the page state
type Searcher struct {
	backend Backend
	store   storage.Store
	log     zerolog.Logger
}

// New creates a searcher that applies results to store
func New(backend Backend, store storage.Store, log zerolog.Logger) *Searcher {
	return &Searcher{
		backend: backend,
		store:   store,
		log:     log.With().Str("component", "search").Logger(),
	}
}

// Fetch issues the text and image searches concurrently. Either both
// succeed or the whole fetch fails.
func (s *Searcher) Fetch(ctx context.Context, query string) (text, image []pkg.SearchResult, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := s.backend.SearchText(gctx, query)
		if err != nil {
			return fmt.Errorf("text search failed: %w", err)
		}
		text = res
		return nil
	})
	g.Go(func() error {
		res, err := s.backend.SearchImage(gctx, query)
		if err != nil {
			return fmt.Errorf("image search failed: %w", err)
		}
		image = res
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if text == nil {
		text = []pkg.SearchResult{}
	}
	if image == nil {
		image = []pkg.SearchResult{}
	}
	return text, image, nil
}

// Search records the query, fetches both columns and replaces them
// wholesale. Only the most recently issued search of a page is applied.
func (s *Searcher) Search(ctx context.Context, pageID, query string) (Result, error) {
	issued, err := s.store.Update(ctx, pageID, func(st storage.PageState) (storage.PageState, error) {
		st.Issued++
		st.Query = query
		return st, nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to record search: %w", err)
	}
	gen := issued.Issued

	start := time.Now()
	s.log.Info().Str("page", pageID).Str("query", query).Uint64("generation", gen).Msg("search issued")

	text, image, fetchErr := s.Fetch(ctx, query)
	if fetchErr != nil {
		s.log.Error().Err(fetchErr).Str("page", pageID).Str("query", query).Msg("search failed, clearing results")
		text, image = []pkg.SearchResult{}, []pkg.SearchResult{}
	}

	// the outcome is written even when the caller went away mid-flight
	applyCtx := context.WithoutCancel(ctx)
	st, err := s.store.Update(applyCtx, pageID, func(st storage.PageState) (storage.PageState, error) {
		if st.Issued != gen {
			return st, errStale
		}
		st.TextResults = text
		st.ImageResults = image
		st.Applied = gen
		return st, nil
	})
	if errors.Is(err, errStale) {
		s.log.Warn().Str("page", pageID).Uint64("generation", gen).Msg("discarding stale search response")
		current, loadErr := s.store.Load(applyCtx, pageID)
		if loadErr != nil {
			return Result{}, fmt.Errorf("failed to load page state: %w", loadErr)
		}
		return Result{State: current, Generation: gen, Stale: true, Err: fetchErr}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to apply search results: %w", err)
	}

	s.log.Debug().
		Str("page", pageID).
		Int("text_results", len(text)).
		Int("image_results", len(image)).
		Dur("elapsed", time.Since(start)).
		Msg("search applied")

	return Result{State: st, Generation: gen, Err: fetchErr}, nil
}
