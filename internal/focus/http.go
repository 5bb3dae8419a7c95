package focus

import (
	"encoding/json"
	"net/http"

	"tasktrove/internal/analytics"
	"tasktrove/internal/model"
)

type Handler struct {
	tracker       *Tracker
	userResolver  func(*http.Request) string
	eventResolver func(*http.Request) analytics.Repository
}

func NewHandler(tracker *Tracker) *Handler {
	return &Handler{tracker: tracker}
}

// SetUserResolver maps a request to the user owning the session.
func (h *Handler) SetUserResolver(fn func(*http.Request) string) {
	h.userResolver = fn
}

func (h *Handler) SetEventResolver(fn func(*http.Request) analytics.Repository) {
	h.eventResolver = fn
}

func (h *Handler) userForRequest(r *http.Request) string {
	if h.userResolver != nil {
		if u := h.userResolver(r); u != "" {
			return u
		}
	}
	return "default"
}

func (h *Handler) recordEvent(r *http.Request, typ analytics.EventType, meta analytics.EventMetadata) {
	if h.eventResolver == nil {
		return
	}
	if repo := h.eventResolver(r); repo != nil {
		_ = repo.RecordEvent(typ, meta)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// /api/focus  (current session)
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	s, ok := h.tracker.Current(h.userForRequest(r))
	if !ok {
		writeJSON(w, 200, map[string]any{"active": false})
		return
	}
	writeJSON(w, 200, map[string]any{"active": true, "session": s})
}

// /api/focus/start
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}
	var in struct {
		TaskID  string `json:"taskId"`
		Minutes int    `json:"minutes"`
	}
	if r.Body != nil {
		_ = decodeJSON(r, &in)
	}

	s, err := h.tracker.Start(h.userForRequest(r), model.TaskID(in.TaskID), in.Minutes)
	if err == ErrSessionActive {
		writeErr(w, 409, "a focus session is already active")
		return
	}
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 201, s)
}

// /api/focus/stop
func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}
	s, minutes, err := h.tracker.Stop(h.userForRequest(r))
	if err == ErrNoSession {
		writeErr(w, 404, "no active focus session")
		return
	}
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}

	h.recordEvent(r, analytics.EventFocusCompleted, analytics.EventMetadata{
		"session_id": s.ID,
		"task_id":    string(s.TaskID),
		"minutes":    minutes,
	})
	writeJSON(w, 200, map[string]any{"session": s, "minutes": minutes})
}

// /api/focus/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}
	s, minutes, err := h.tracker.Stop(h.userForRequest(r))
	if err == ErrNoSession {
		writeErr(w, 404, "no active focus session")
		return
	}
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}

	h.recordEvent(r, analytics.EventFocusCanceled, analytics.EventMetadata{
		"session_id": s.ID,
		"task_id":    string(s.TaskID),
		"minutes":    minutes,
	})
	writeJSON(w, 200, map[string]any{"ok": true})
}
