package task

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tasktrove/internal/label"
	"tasktrove/internal/model"
	"tasktrove/internal/project"
)

func newTestHandler(t *testing.T) (*Handler, *MemoryRepo, *project.FileRepo, *label.FileRepo) {
	t.Helper()

	repo := NewMemoryRepo()
	projects, err := project.NewFileRepo(t.TempDir())
	if err != nil {
		t.Fatalf("project repo: %v", err)
	}
	labels, err := label.NewFileRepo(t.TempDir())
	if err != nil {
		t.Fatalf("label repo: %v", err)
	}

	h := NewHandler(repo)
	h.SetProjectResolver(func(*http.Request) project.Repo { return projects })
	h.SetLabelResolver(func(*http.Request) label.Repo { return labels })
	return h, repo, projects, labels
}

func postJSON(t *testing.T, fn http.HandlerFunc, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func TestCreateTaskPlacesInDefaultSection(t *testing.T) {
	h, _, projects, _ := newTestHandler(t)

	p, err := projects.CreateProject("Work", "#ff0000")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	rec := postJSON(t, h.TasksRoot, "/api/tasks", map[string]any{
		"title":     "write report",
		"projectId": string(p.ID),
	})
	if rec.Code != 201 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created model.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.SectionID == "" {
		t.Fatal("task not placed in a section")
	}

	sections, err := projects.ListSections(p.ID)
	if err != nil {
		t.Fatalf("ListSections: %v", err)
	}
	if len(sections) != 1 || len(sections[0].TaskIDs) != 1 || sections[0].TaskIDs[0] != created.ID {
		t.Fatalf("section ordering = %+v", sections)
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	rec := postJSON(t, h.TasksRoot, "/api/tasks", map[string]any{"title": "  "})
	if rec.Code != 400 {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCompleteEndpointReschedulesRecurring(t *testing.T) {
	h, repo, _, _ := newTestHandler(t)

	due := "2024-01-19"
	rule := "FREQ=WEEKLY"
	created, err := repo.Create(model.Task{Title: "water plants", DueDate: &due, Recurrence: &rule})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/"+string(created.ID)+"/complete", nil)
	rec := httptest.NewRecorder()
	h.TasksSub(rec, req)
	if rec.Code != 200 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Rescheduled bool       `json:"rescheduled"`
		NextDue     string     `json:"nextDue"`
		Task        model.Task `json:"task"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Rescheduled {
		t.Fatal("want rescheduled")
	}
	if out.Task.Done {
		t.Fatal("recurring task must stay open")
	}
	if out.Task.DueDate == nil || *out.Task.DueDate != out.NextDue {
		t.Fatalf("task due = %v, nextDue = %q", out.Task.DueDate, out.NextDue)
	}
}

func TestCompleteEndpointUnknownTask(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/task_nope/complete", nil)
	rec := httptest.NewRecorder()
	h.TasksSub(rec, req)
	if rec.Code != 404 {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestQuickAddCreatesProjectAndLabels(t *testing.T) {
	h, _, projects, labels := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/quickadd",
		strings.NewReader(`{"text":"buy milk tomorrow #errands @shopping p1"}`))
	rec := httptest.NewRecorder()
	h.TasksSub(rec, req)
	if rec.Code != 201 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created model.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Title != "buy milk" {
		t.Fatalf("title = %q", created.Title)
	}
	if created.Priority != model.PriorityUrgent {
		t.Fatalf("priority = %d", created.Priority)
	}
	if created.DueDate == nil {
		t.Fatal("due date missing")
	}

	if _, ok := projects.FindProjectByName("errands"); !ok {
		t.Fatal("project was not created")
	}
	if _, ok := labels.FindByName("shopping"); !ok {
		t.Fatal("label was not created")
	}
	if len(created.Labels) != 1 {
		t.Fatalf("labels = %v", created.Labels)
	}
}

func TestPatchClearsDueDateWithEmptyString(t *testing.T) {
	h, repo, _, _ := newTestHandler(t)

	due := "2024-05-01"
	created, err := repo.Create(model.Task{Title: "one-off", DueDate: &due})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/tasks/"+string(created.ID),
		strings.NewReader(`{"dueDate":""}`))
	rec := httptest.NewRecorder()
	h.TasksSub(rec, req)
	if rec.Code != 200 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	got, err := repo.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.DueDate != nil {
		t.Fatalf("DueDate = %v, want cleared", *got.DueDate)
	}
}

func TestCalendarFeedListsDatedTasks(t *testing.T) {
	h, repo, _, _ := newTestHandler(t)

	due := "2024-07-01"
	rule := "FREQ=MONTHLY"
	if _, err := repo.Create(model.Task{Title: "pay rent", DueDate: &due, Recurrence: &rule}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.Create(model.Task{Title: "undated"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/calendar.ics", nil)
	rec := httptest.NewRecorder()
	h.Calendar(rec, req)
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "SUMMARY:pay rent") {
		t.Fatalf("missing event:\n%s", body)
	}
	if !strings.Contains(body, "RRULE:FREQ=MONTHLY") {
		t.Fatalf("missing rrule:\n%s", body)
	}
	if strings.Contains(body, "undated") {
		t.Fatal("undated task must be skipped")
	}
	if strings.Count(body, "BEGIN:VEVENT") != 1 {
		t.Fatalf("event count wrong:\n%s", body)
	}
}
