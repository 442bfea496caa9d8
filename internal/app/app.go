package app

import (
	"context"
	"net/http"
	"time"

	"video_search_web/internal/backend"
	"video_search_web/internal/config"
	"video_search_web/internal/search"
	"video_search_web/internal/stats"
	"video_search_web/internal/storage"
	"video_search_web/internal/web"

	"github.com/rs/zerolog"
)

// pinger is implemented by stores backed by a server
type pinger interface {
	Ping(ctx context.Context) error
}

// App is the assembled HTTP surface
type App struct {
	mux *http.ServeMux
}

// New wires the searcher, stats loader and page handlers onto one mux
func New(client *backend.Client, store storage.Store, ui *config.UIConfig, pageTTL time.Duration, log zerolog.Logger) *App {
	mux := http.NewServeMux()

	// liveness, plus the store when it is remote
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if p, ok := store.(pinger); ok {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				log.Warn().Err(err).Msg("health check: store unreachable")
				http.Error(w, "store unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/search", http.StatusFound)
	})

	h := web.New(
		search.New(client, store, log),
		stats.NewLoader(client, store, log),
		store,
		ui,
		pageTTL,
		log,
	)
	h.Register(mux)

	return &App{mux: mux}
}

// Router returns the root handler
func (a *App) Router() http.Handler {
	return a.mux
}
