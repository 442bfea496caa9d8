// Package web serves the search page: the query form, the two result
// columns and the per-card stats panels.
package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"video_search_web/internal/charts"
	"video_search_web/internal/config"
	"video_search_web/internal/search"
	"video_search_web/internal/stats"
	"video_search_web/internal/storage"
	"video_search_web/pkg"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PageCookie names the cookie that identifies a page view
const PageCookie = "page_id"

const (
	columnText  = "text"
	columnImage = "image"
)

var funcMap = template.FuncMap{
	// num renders an SVG coordinate
	"num": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	"pct": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	// pathEscape keeps a session id inside one path segment
	"pathEscape": url.PathEscape,
	"dict": func(kv ...any) (map[string]any, error) {
		if len(kv)%2 != 0 {
			return nil, errors.New("dict needs key/value pairs")
		}
		m := make(map[string]any, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			k, ok := kv[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict key %v is not a string", kv[i])
			}
			m[k] = kv[i+1]
		}
		return m, nil
	},
}

type pageData struct {
	UI    *config.UIConfig
	Query string
	Text  []cardData
	Image []cardData
}

type cardData struct {
	UI     *config.UIConfig
	Anchor string
	Result pkg.SearchResult
	Score  string
	Entry  storage.StatsEntry
	// Panel is set only when the entry is open with cached stats
	Panel *charts.Panel
}

// Handlers serves the search page of one page view per cookie
type Handlers struct {
	searcher  *search.Searcher
	loader    *stats.Loader
	store     storage.Store
	ui        *config.UIConfig
	format    charts.Formatter
	tmpl      *template.Template
	cookieTTL time.Duration
	log       zerolog.Logger
}

// New builds the page handlers; a nil ui falls back to the defaults
func New(searcher *search.Searcher, loader *stats.Loader, store storage.Store, ui *config.UIConfig, cookieTTL time.Duration, log zerolog.Logger) *Handlers {
	if ui == nil {
		ui = config.DefaultUIConfig()
	}
	return &Handlers{
		searcher:  searcher,
		loader:    loader,
		store:     store,
		ui:        ui,
		format:    charts.NewFormatter(ui.Format.Locale, ui.Format.MaxFractionDigits),
		tmpl:      template.Must(template.New("page").Funcs(funcMap).Parse(tmplBase + tmplSearch)),
		cookieTTL: cookieTTL,
		log:       log.With().Str("component", "web").Logger(),
	}
}

// Register mounts the page routes on mux
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /search", h.ShowSearch)
	mux.HandleFunc("POST /search", h.SubmitSearch)
	mux.HandleFunc("POST /stats/{sessionID}/toggle", h.ToggleStats)
}

// ShowSearch renders the current page view
func (h *Handlers) ShowSearch(w http.ResponseWriter, r *http.Request) {
	pageID := h.pageID(w, r)

	st, err := h.store.Load(r.Context(), pageID)
	if err != nil {
		h.fail(w, err, "failed to load page state")
		return
	}

	data := pageData{
		UI:    h.ui,
		Query: st.Query,
		Text:  h.cards(columnText, st.TextResults, st),
		Image: h.cards(columnImage, st.ImageResults, st),
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		h.fail(w, err, "template error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// SubmitSearch runs the query and redirects back to the page
func (h *Handlers) SubmitSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	pageID := h.pageID(w, r)
	query := r.PostFormValue("q")

	res, err := h.searcher.Search(r.Context(), pageID, query)
	if err != nil {
		h.fail(w, err, "search failed")
		return
	}
	h.log.Info().
		Str("page", pageID).
		Str("query", query).
		Uint64("generation", res.Generation).
		Bool("stale", res.Stale).
		Int("text", len(res.State.TextResults)).
		Int("image", len(res.State.ImageResults)).
		Msg("search applied")

	http.Redirect(w, r, "/search", http.StatusSeeOther)
}

// ToggleStats opens or closes the stats panel of a session, fetching the
// stats on first use, and redirects back to the card
func (h *Handlers) ToggleStats(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	pageID := h.pageID(w, r)

	if _, err := h.loader.Toggle(r.Context(), pageID, sessionID); err != nil {
		h.fail(w, err, "stats toggle failed")
		return
	}

	target := "/search"
	if anchor := r.PostFormValue("anchor"); validAnchor(anchor) {
		target += "#" + anchor
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handlers) cards(column string, results []pkg.SearchResult, st storage.PageState) []cardData {
	if limit := h.ui.Page.ResultLimit; limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	out := make([]cardData, 0, len(results))
	for i, res := range results {
		c := cardData{
			UI:     h.ui,
			Anchor: fmt.Sprintf("card-%s-%d", column, i),
			Result: res,
			Entry:  st.Entry(res.SessionID),
		}
		if res.Score != nil {
			c.Score = h.format.NumberDigits(res.Score, 3)
		}
		if c.Entry.Open && c.Entry.Cached() {
			p := charts.BuildPanel(c.Entry.Response, h.format)
			c.Panel = &p
		}
		out = append(out, c)
	}
	return out
}

// pageID returns the view id from the cookie, minting one when absent
func (h *Handlers) pageID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(PageCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	cookie := &http.Cookie{
		Name:     PageCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if h.cookieTTL > 0 {
		cookie.MaxAge = int(h.cookieTTL.Seconds())
	}
	http.SetCookie(w, cookie)
	return id
}

func (h *Handlers) fail(w http.ResponseWriter, err error, msg string) {
	h.log.Error().Err(err).Msg(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}

// validAnchor accepts the ids generated by cards
func validAnchor(s string) bool {
	if !strings.HasPrefix(s, "card-") || len(s) > 64 {
		return false
	}
	for _, r := range s {
		if !(r == '-' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
