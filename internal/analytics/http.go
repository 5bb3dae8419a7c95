package analytics

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

type Handler struct {
	repo         Repository
	repoResolver func(*http.Request) Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) SetRepoResolver(fn func(*http.Request) Repository) {
	h.repoResolver = fn
}

func (h *Handler) repoForRequest(r *http.Request) Repository {
	if h.repoResolver != nil {
		if repo := h.repoResolver(r); repo != nil {
			return repo
		}
	}
	return h.repo
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// /api/analytics/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	repo := h.repoForRequest(r)

	days := 30
	if s := r.URL.Query().Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 365 {
			writeErr(w, 400, "days must be between 1 and 365")
			return
		}
		days = n
	}

	now := time.Now()
	since := now.AddDate(0, 0, -(days - 1))
	events, err := repo.GetEvents(since, nil)
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}

	stats, err := CalculateStats(events, since, now)
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, stats)
}
