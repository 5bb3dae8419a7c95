package task

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"tasktrove/internal/analytics"
	"tasktrove/internal/label"
	"tasktrove/internal/model"
	"tasktrove/internal/project"
	"tasktrove/internal/quickadd"
)

type Handler struct {
	repo            Repo
	repoResolver    func(*http.Request) Repo
	projectResolver func(*http.Request) project.Repo
	labelResolver   func(*http.Request) label.Repo
	eventResolver   func(*http.Request) analytics.Repository
}

func NewHandler(repo Repo) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) SetRepoResolver(fn func(*http.Request) Repo) {
	h.repoResolver = fn
}

func (h *Handler) SetProjectResolver(fn func(*http.Request) project.Repo) {
	h.projectResolver = fn
}

func (h *Handler) SetLabelResolver(fn func(*http.Request) label.Repo) {
	h.labelResolver = fn
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

func (h *Handler) projectsForRequest(r *http.Request) project.Repo {
	if h.projectResolver == nil {
		return nil
	}
	return h.projectResolver(r)
}

func (h *Handler) labelsForRequest(r *http.Request) label.Repo {
	if h.labelResolver == nil {
		return nil
	}
	return h.labelResolver(r)
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

type createInput struct {
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Priority      model.Priority      `json:"priority"`
	ProjectID     model.ProjectID     `json:"projectId"`
	SectionID     model.SectionID     `json:"sectionId"`
	Labels        []model.LabelID     `json:"labels"`
	DueDate       *string             `json:"dueDate"`
	Recurrence    *string             `json:"recurrence"`
	RecurringMode model.RecurringMode `json:"recurringMode"`
}

// placeTask appends a freshly created task to its section's ordered
// list. A missing section falls back to the project's first section.
func (h *Handler) placeTask(r *http.Request, t model.Task) model.Task {
	projects := h.projectsForRequest(r)
	if projects == nil || t.ProjectID == "" {
		return t
	}

	sectionID := t.SectionID
	if sectionID == "" {
		sections, err := projects.ListSections(t.ProjectID)
		if err != nil || len(sections) == 0 {
			return t
		}
		sectionID = sections[0].ID
	}
	if err := projects.AppendTask(sectionID, t.ID); err != nil {
		return t
	}
	if sectionID != t.SectionID {
		sid := sectionID
		if updated, err := h.repoForRequest(r).Update(t.ID, Patch{SectionID: &sid}); err == nil {
			return updated
		}
	}
	return t
}

// /api/tasks  (collection)
func (h *Handler) TasksRoot(w http.ResponseWriter, r *http.Request) {
	repo := h.repoForRequest(r)

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		filter := ListFilter{
			Status:    q.Get("status"),
			ProjectID: model.ProjectID(q.Get("projectId")),
			SectionID: model.SectionID(q.Get("sectionId")),
			Label:     model.LabelID(q.Get("label")),
		}
		ts, err := repo.List(filter)
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, ts)
		return

	case http.MethodPost:
		var in createInput
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		if strings.TrimSpace(in.Title) == "" {
			writeErr(w, 400, "title is required")
			return
		}

		t, err := repo.Create(model.Task{
			Title:         in.Title,
			Description:   in.Description,
			Priority:      in.Priority,
			ProjectID:     in.ProjectID,
			SectionID:     in.SectionID,
			Labels:        in.Labels,
			DueDate:       in.DueDate,
			Recurrence:    in.Recurrence,
			RecurringMode: in.RecurringMode,
		})
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		t = h.placeTask(r, t)

		h.recordEvent(r, analytics.EventTaskCreated, analytics.EventMetadata{
			"task_id":    string(t.ID),
			"project_id": string(t.ProjectID),
		})
		writeJSON(w, 201, t)
		return

	default:
		writeErr(w, 405, "method not allowed")
		return
	}
}

// /api/tasks/{id}
func (h *Handler) TasksSub(w http.ResponseWriter, r *http.Request) {
	repo := h.repoForRequest(r)

	tail := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	tail = strings.Trim(tail, "/")
	if tail == "" {
		writeErr(w, 404, "not found")
		return
	}
	if tail == "quickadd" {
		h.quickAdd(w, r)
		return
	}

	parts := strings.Split(tail, "/")
	id := model.TaskID(parts[0])

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			t, err := repo.Get(id)
			if err == ErrNotFound {
				writeErr(w, 404, "not found")
				return
			}
			if err != nil {
				writeErr(w, 500, err.Error())
				return
			}
			writeJSON(w, 200, t)
			return

		case http.MethodPatch:
			var p Patch
			if err := decodeJSON(r, &p); err != nil {
				writeErr(w, 400, "bad json")
				return
			}

			t, err := repo.Update(id, p)
			if err == ErrNotFound {
				writeErr(w, 404, "not found")
				return
			}
			if err != nil {
				writeErr(w, 500, err.Error())
				return
			}

			// A section change re-homes the task in the ordered lists.
			if p.SectionID != nil {
				if projects := h.projectsForRequest(r); projects != nil {
					_ = projects.RemoveTask(id)
					if *p.SectionID != "" {
						_ = projects.AppendTask(*p.SectionID, id)
					}
				}
			}
			writeJSON(w, 200, t)
			return

		case http.MethodDelete:
			if err := repo.Delete(id); err != nil {
				if err == ErrNotFound {
					writeErr(w, 404, "not found")
					return
				}
				writeErr(w, 500, err.Error())
				return
			}
			if projects := h.projectsForRequest(r); projects != nil {
				_ = projects.RemoveTask(id)
			}
			writeJSON(w, 200, map[string]any{"ok": true})
			return

		default:
			writeErr(w, 405, "method not allowed")
			return
		}
	}

	// /api/tasks/{id}/complete
	if len(parts) == 2 && parts[1] == "complete" {
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}

		cur, err := repo.Get(id)
		if err == ErrNotFound {
			writeErr(w, 404, "not found")
			return
		}
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}

		patch, result := BuildCompletionUpdate(cur, time.Now())
		t, err := repo.Update(id, patch)
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}

		h.recordEvent(r, analytics.EventTaskCompleted, analytics.EventMetadata{
			"task_id":    string(t.ID),
			"project_id": string(t.ProjectID),
		})
		if result.Rescheduled {
			h.recordEvent(r, analytics.EventTaskRescheduled, analytics.EventMetadata{
				"task_id":  string(t.ID),
				"next_due": result.NextDue,
			})
		}

		writeJSON(w, 200, map[string]any{
			"task":        t,
			"completed":   result.Completed,
			"rescheduled": result.Rescheduled,
			"nextDue":     result.NextDue,
		})
		return
	}

	// /api/tasks/{id}/calendar.ics
	if len(parts) == 2 && parts[1] == "calendar.ics" {
		if r.Method != http.MethodGet {
			writeErr(w, 405, "method not allowed")
			return
		}
		t, err := repo.Get(id)
		if err == ErrNotFound {
			writeErr(w, 404, "not found")
			return
		}
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		ics, err := BuildTaskCalendarICS(t, time.Now())
		if err != nil {
			writeErr(w, 400, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="task.ics"`)
		_, _ = w.Write([]byte(ics))
		return
	}

	writeErr(w, 404, "not found")
}

// /api/calendar.ics
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	repo := h.repoForRequest(r)
	ts, err := repo.List(ListFilter{Status: "pending"})
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="tasktrove.ics"`)
	_, _ = w.Write([]byte(BuildCalendarICS(ts, time.Now())))
}

// /api/tasks/quickadd
func (h *Handler) quickAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}
	var in struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	if strings.TrimSpace(in.Text) == "" {
		writeErr(w, 400, "text is required")
		return
	}

	parsed := quickadd.Parse(in.Text, time.Now())
	if parsed.Title == "" {
		writeErr(w, 400, "nothing left for a title after parsing")
		return
	}

	t := model.Task{
		Title:    parsed.Title,
		Priority: parsed.Priority,
	}
	if parsed.DueDate != "" {
		t.DueDate = &parsed.DueDate
	}
	if parsed.Rule != nil {
		rule := parsed.Rule.String()
		t.Recurrence = &rule
	}

	if parsed.Project != "" {
		if projects := h.projectsForRequest(r); projects != nil {
			p, ok := projects.FindProjectByName(parsed.Project)
			if !ok {
				created, err := projects.CreateProject(parsed.Project, "")
				if err == nil {
					p, ok = created, true
				}
			}
			if ok {
				t.ProjectID = p.ID
			}
		}
	}

	if len(parsed.Labels) > 0 {
		if labels := h.labelsForRequest(r); labels != nil {
			for _, name := range parsed.Labels {
				l, ok := labels.FindByName(name)
				if !ok {
					created, err := labels.Create(name, "")
					if err != nil {
						continue
					}
					l = created
				}
				t.Labels = append(t.Labels, l.ID)
			}
		}
	}

	repo := h.repoForRequest(r)
	created, err := repo.Create(t)
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	created = h.placeTask(r, created)

	h.recordEvent(r, analytics.EventTaskCreated, analytics.EventMetadata{
		"task_id":    string(created.ID),
		"project_id": string(created.ProjectID),
		"quick_add":  true,
	})
	writeJSON(w, 201, created)
}
