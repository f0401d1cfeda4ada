package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/desertthunder/player/internal/library"
	"github.com/desertthunder/player/internal/player"
	"github.com/desertthunder/player/internal/shared"
	"github.com/desertthunder/player/internal/web"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// MetaHandler lists the catalog, unsorted, as the api/meta JSON array.
type MetaHandler struct {
	catalog *library.Catalog
}

func (h *MetaHandler) Routes() []string {
	return []string{"GET /api/meta"}
}

func (h *MetaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Songs())
}

// DownloadHandler serves audio content by blob ref, with range support.
type DownloadHandler struct {
	catalog *library.Catalog
}

func (h *DownloadHandler) Routes() []string {
	return []string{"GET /ui/download/{ref}"}
}

func (h *DownloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	entry, err := h.catalog.Lookup(r.PathValue("ref"))
	if errors.Is(err, shared.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	f, err := os.Open(entry.Path)
	if errors.Is(err, os.ErrNotExist) {
		writeError(w, http.StatusNotFound, "file no longer available")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to open file")
		return
	}
	defer f.Close()

	if entry.Song.MediaType != "" {
		w.Header().Set("Content-Type", entry.Song.MediaType)
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeContent(w, r, filepath.Base(entry.Path), entry.ModTime, f)
}

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	Session string       `json:"session"`
	Query   string       `json:"query"`
	Results []player.Hit `json:"results"`
}

// SearchHandler queries the current session's index.
type SearchHandler struct {
	provider *PlayerProvider
}

func (h *SearchHandler) Routes() []string {
	return []string{"GET /api/search"}
}

func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	s, hits, err := h.provider.Search(query, limit)
	switch {
	case errors.Is(err, errSessionNotReady):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	if hits == nil {
		hits = []player.Hit{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Session: s.ID, Query: query, Results: hits})
}

// PlayerHandler serves the current session's playback configuration.
type PlayerHandler struct {
	provider *PlayerProvider
}

func (h *PlayerHandler) Routes() []string {
	return []string{"GET /api/player"}
}

func (h *PlayerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := h.provider.Current()
	if s == nil {
		writeError(w, http.StatusServiceUnavailable, errSessionNotReady.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.Config)
}

// PageHandler renders the player page for the current session.
type PageHandler struct {
	provider *PlayerProvider
	title    string
}

func (h *PageHandler) Routes() []string {
	return []string{"GET /{$}"}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := h.provider.Current()
	if s == nil {
		http.Error(w, errSessionNotReady.Error(), http.StatusServiceUnavailable)
		return
	}

	data, err := web.NewPageData(h.title, s)
	if err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := web.RenderPage(&buf, data); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// StaticHandler serves the embedded assets.
type StaticHandler struct {
	files http.Handler
}

// NewStaticHandler creates a [StaticHandler] over [web.Static].
func NewStaticHandler() *StaticHandler {
	return &StaticHandler{files: http.FileServerFS(web.Static())}
}

func (h *StaticHandler) Routes() []string {
	return []string{"GET /static/"}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.files.ServeHTTP(w, r)
}
