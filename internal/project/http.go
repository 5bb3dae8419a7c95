package project

import (
	"encoding/json"
	"net/http"
	"strings"

	"tasktrove/internal/analytics"
	"tasktrove/internal/model"
)

// TaskMover lets the move endpoint keep task records in step with the
// ordered lists without importing the task package.
type TaskMover interface {
	SetTaskSection(taskID model.TaskID, projectID model.ProjectID, sectionID model.SectionID) error
}

type Handler struct {
	repo          Repo
	repoResolver  func(*http.Request) Repo
	moverResolver func(*http.Request) TaskMover
	eventResolver func(*http.Request) analytics.Repository
}

func NewHandler(repo Repo) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) SetRepoResolver(fn func(*http.Request) Repo) {
	h.repoResolver = fn
}

func (h *Handler) SetMoverResolver(fn func(*http.Request) TaskMover) {
	h.moverResolver = fn
}

func (h *Handler) SetEventResolver(fn func(*http.Request) analytics.Repository) {
	h.eventResolver = fn
}

func (h *Handler) repoForRequest(r *http.Request) Repo {
	if h.repoResolver != nil {
		if repo := h.repoResolver(r); repo != nil {
			return repo
		}
	}
	return h.repo
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

// /api/projects  (collection)
func (h *Handler) ProjectsRoot(w http.ResponseWriter, r *http.Request) {
	repo := h.repoForRequest(r)

	switch r.Method {
	case http.MethodGet:
		ps, err := repo.ListProjects()
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, ps)
		return

	case http.MethodPost:
		var in struct {
			Name  string `json:"name"`
			Color string `json:"color"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		if strings.TrimSpace(in.Name) == "" {
			writeErr(w, 400, "name is required")
			return
		}
		p, err := repo.CreateProject(in.Name, in.Color)
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 201, p)
		return

	default:
		writeErr(w, 405, "method not allowed")
		return
	}
}

// /api/projects/{id}  and  /api/projects/{id}/sections
func (h *Handler) ProjectsSub(w http.ResponseWriter, r *http.Request) {
	repo := h.repoForRequest(r)

	tail := strings.TrimPrefix(r.URL.Path, "/api/projects/")
	tail = strings.Trim(tail, "/")
	if tail == "" {
		writeErr(w, 404, "not found")
		return
	}

	parts := strings.Split(tail, "/")
	id := model.ProjectID(parts[0])

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			p, err := repo.GetProject(id)
			if err == ErrNotFound {
				writeErr(w, 404, "not found")
				return
			}
			if err != nil {
				writeErr(w, 500, err.Error())
				return
			}
			writeJSON(w, 200, p)
			return

		case http.MethodPatch:
			var patch Patch
			if err := decodeJSON(r, &patch); err != nil {
				writeErr(w, 400, "bad json")
				return
			}
			p, err := repo.UpdateProject(id, patch)
			if err == ErrNotFound {
				writeErr(w, 404, "not found")
				return
			}
			if err != nil {
				writeErr(w, 500, err.Error())
				return
			}
			writeJSON(w, 200, p)
			return

		case http.MethodDelete:
			if err := repo.DeleteProject(id); err != nil {
				if err == ErrNotFound {
					writeErr(w, 404, "not found")
					return
				}
				writeErr(w, 500, err.Error())
				return
			}
			writeJSON(w, 200, map[string]any{"ok": true})
			return

		default:
			writeErr(w, 405, "method not allowed")
			return
		}
	}

	if len(parts) == 2 && parts[1] == "sections" {
		switch r.Method {
		case http.MethodGet:
			ss, err := repo.ListSections(id)
			if err == ErrNotFound {
				writeErr(w, 404, "not found")
				return
			}
			if err != nil {
				writeErr(w, 500, err.Error())
				return
			}
			writeJSON(w, 200, ss)
			return

		case http.MethodPost:
			var in struct {
				Name string `json:"name"`
			}
			if err := decodeJSON(r, &in); err != nil {
				writeErr(w, 400, "bad json")
				return
			}
			s, err := repo.CreateSection(id, in.Name)
			if err == ErrNotFound {
				writeErr(w, 404, "not found")
				return
			}
			if err != nil {
				writeErr(w, 500, err.Error())
				return
			}
			writeJSON(w, 201, s)
			return

		default:
			writeErr(w, 405, "method not allowed")
			return
		}
	}

	writeErr(w, 404, "not found")
}

// /api/sections/{id}  and  /api/sections/move
func (h *Handler) SectionsSub(w http.ResponseWriter, r *http.Request) {
	repo := h.repoForRequest(r)

	tail := strings.TrimPrefix(r.URL.Path, "/api/sections/")
	tail = strings.Trim(tail, "/")
	if tail == "" {
		writeErr(w, 404, "not found")
		return
	}
	if tail == "move" {
		h.moveTask(w, r)
		return
	}

	id := model.SectionID(tail)
	switch r.Method {
	case http.MethodPatch:
		var in struct {
			Name string `json:"name"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		s, err := repo.RenameSection(id, in.Name)
		if err == ErrSectionNotFound {
			writeErr(w, 404, "not found")
			return
		}
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, s)
		return

	case http.MethodDelete:
		if err := repo.DeleteSection(id); err != nil {
			if err == ErrSectionNotFound {
				writeErr(w, 404, "not found")
				return
			}
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, map[string]any{"ok": true})
		return

	default:
		writeErr(w, 405, "method not allowed")
		return
	}
}

// moveTask applies a drop gesture. The resolver tolerates stale
// targets; a vanished source task makes the whole move a no-op.
func (h *Handler) moveTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}
	repo := h.repoForRequest(r)

	var intent DropIntent
	if err := decodeJSON(r, &intent); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	if intent.TaskID == "" || intent.FromSectionID == "" || intent.ToSectionID == "" {
		writeErr(w, 400, "taskId, fromSectionId and toSectionId are required")
		return
	}

	plan, moved, err := repo.ApplyMove(intent)
	if err == ErrSectionNotFound {
		writeErr(w, 404, "section not found")
		return
	}
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	if !moved {
		writeJSON(w, 200, map[string]any{"moved": false})
		return
	}

	if !plan.SameSection {
		if h.moverResolver != nil {
			if mover := h.moverResolver(r); mover != nil {
				target, err := repo.GetSection(intent.ToSectionID)
				if err == nil {
					_ = mover.SetTaskSection(intent.TaskID, target.ProjectID, target.ID)
				}
			}
		}
	}

	h.recordEvent(r, analytics.EventTaskMoved, analytics.EventMetadata{
		"task_id":      string(intent.TaskID),
		"from_section": string(intent.FromSectionID),
		"to_section":   string(intent.ToSectionID),
	})
	writeJSON(w, 200, map[string]any{
		"moved": true,
		"index": plan.Index,
	})
}
