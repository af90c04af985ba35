package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/nicolovejoy/audio-journal/internal/errors"
	"github.com/nicolovejoy/audio-journal/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	env      *ops.Env
	renderer *Renderer
}

// HandleIndex handles GET /{$} and redirects to the entry list.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/entries", http.StatusFound)
}

// HandleList handles GET /entries, listing entries newest first with an
// optional year filter.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	year := parseIntParam(r, "year", 0)

	result, err := ops.List(h.env, ops.ListInput{
		Year:  year,
		Limit: parseIntParam(r, "limit", 50),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	years, err := h.env.Repo.Years()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "list", ListPageData{
		PageData: PageData{
			Title:   "Entries",
			Version: h.renderer.version,
			Nav:     "entries",
		},
		Year:  year,
		Years: years,
		Items: result.Items,
		Total: result.Total,
	})
}

// HandleSearch handles GET /search. Without a query it shows the blank
// form; with one it runs the search and renders matches.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	year := parseIntParam(r, "year", 0)

	data := SearchPageData{
		PageData: PageData{
			Title:   "Search",
			Version: h.renderer.version,
			Nav:     "search",
		},
		Query:    query,
		Year:     year,
		HasQuery: query != "",
	}

	if query == "" {
		h.renderer.renderPage(w, "search", data)
		return
	}

	result, err := ops.Search(h.env, ops.SearchInput{
		Term:    query,
		Year:    year,
		Limit:   parseIntParam(r, "limit", 50),
		Verbose: parseBoolParam(r, "verbose"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data.Matches = result.Matches
	data.Total = result.Total

	h.renderer.renderPage(w, "search", data)
}

// HandleDetail handles GET /entries/{year}/{key}, rendering one entry's
// transcript document as HTML.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	yearStr := r.PathValue("year")
	key := r.PathValue("key")
	if _, err := strconv.Atoi(yearStr); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("year must be a number"))
		return
	}
	if key == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("entry key is required"))
		return
	}

	entry, err := ops.Show(h.env, ops.ShowInput{Key: yearStr + "/" + key})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	audioURL := ""
	if entry.AudioPath != "" {
		audioURL = fmt.Sprintf("/audio/%d/%s", entry.Year, entry.Key)
	}

	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData: PageData{
			Title:   fmt.Sprintf("%d/%s", entry.Year, entry.Key),
			Version: h.renderer.version,
			Nav:     "entries",
		},
		Entry:        entry,
		RenderedHTML: renderMarkdown(entry.Content),
		AudioURL:     audioURL,
	})
}

// HandleAudio handles GET /audio/{year}/{key}, streaming the entry's
// audio file for the detail page player.
func (h *Handlers) HandleAudio(w http.ResponseWriter, r *http.Request) {
	yearStr := r.PathValue("year")
	key := r.PathValue("key")
	if _, err := strconv.Atoi(yearStr); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("year must be a number"))
		return
	}

	entry, found, err := h.env.Repo.Find(yearStr + "/" + key)
	if err != nil {
		h.renderer.renderError(w, r, errors.NewIOFailure("find entry", err))
		return
	}
	if !found {
		h.renderer.renderError(w, r, errors.NewNotFound(yearStr+"/"+key))
		return
	}

	audioPath, ok := h.env.Repo.AudioFor(entry)
	if !ok {
		h.renderer.renderError(w, r, errors.NewNotFound(yearStr+"/"+key))
		return
	}

	http.ServeFile(w, r, audioPath)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
