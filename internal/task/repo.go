package task

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"time"

	"tasktrove/internal/model"
)

var ErrNotFound = errors.New("task not found")

// Patch represents a partial update.
// nil pointer => "no change"
// empty string for pointer fields (DueDate/Recurrence) => clear (set to nil)
type Patch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Done        *bool            `json:"done,omitempty"`
	Priority    *model.Priority  `json:"priority,omitempty"`
	ProjectID   *model.ProjectID `json:"projectId,omitempty"`
	SectionID   *model.SectionID `json:"sectionId,omitempty"`
	Labels      *[]model.LabelID `json:"labels,omitempty"`

	DueDate       *string              `json:"dueDate,omitempty"`
	Recurrence    *string              `json:"recurrence,omitempty"`
	RecurringMode *model.RecurringMode `json:"recurringMode,omitempty"`

	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type ListFilter struct {
	// Status:
	//   "" | "all" | "pending" | "done" | "due_today" | "upcoming" | "overdue"
	Status string

	// ProjectID / SectionID: empty = don't care.
	ProjectID model.ProjectID
	SectionID model.SectionID

	// Label: empty = don't care.
	Label model.LabelID
}

type Repo interface {
	Create(t model.Task) (model.Task, error)
	Get(id model.TaskID) (model.Task, error)
	Update(id model.TaskID, patch Patch) (model.Task, error)
	Delete(id model.TaskID) error
	List(filter ListFilter) ([]model.Task, error)
}

func newID() model.TaskID {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return model.TaskID("task_" + hex.EncodeToString(b[:]))
}

func normalizeTask(t *model.Task) {
	if t.Labels == nil {
		t.Labels = []model.LabelID{}
	}
	if !t.Priority.Valid() {
		t.Priority = model.PriorityLow
	}
	if t.RecurringMode == "" {
		t.RecurringMode = model.RecurringModeDueDate
	}
}

func applyPatch(t *model.Task, p Patch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Done != nil {
		t.Done = *p.Done
	}
	if p.Priority != nil && p.Priority.Valid() {
		t.Priority = *p.Priority
	}
	if p.ProjectID != nil {
		t.ProjectID = *p.ProjectID
	}
	if p.SectionID != nil {
		t.SectionID = *p.SectionID
	}
	if p.Labels != nil {
		if *p.Labels == nil {
			t.Labels = []model.LabelID{}
		} else {
			t.Labels = *p.Labels
		}
	}

	// pointer string fields with "empty clears" semantics
	if p.DueDate != nil {
		if *p.DueDate == "" {
			t.DueDate = nil
		} else {
			t.DueDate = p.DueDate
		}
	}
	if p.Recurrence != nil {
		if *p.Recurrence == "" {
			t.Recurrence = nil
		} else {
			t.Recurrence = p.Recurrence
		}
	}
	if p.RecurringMode != nil {
		t.RecurringMode = *p.RecurringMode
	}
	if p.CompletedAt != nil {
		t.CompletedAt = p.CompletedAt
	}
}

func matchesFilter(t model.Task, filter ListFilter, today string) bool {
	if filter.ProjectID != "" && t.ProjectID != filter.ProjectID {
		return false
	}
	if filter.SectionID != "" && t.SectionID != filter.SectionID {
		return false
	}
	if filter.Label != "" && !t.HasLabel(filter.Label) {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(filter.Status)) {
	case "", "all":
		return true
	case "pending":
		return !t.Done
	case "done":
		return t.Done
	case "due_today":
		return !t.Done && t.DueDate != nil && *t.DueDate == today
	case "overdue":
		// YYYY-MM-DD compares lexicographically.
		return !t.Done && t.DueDate != nil && *t.DueDate < today
	case "upcoming":
		return !t.Done && t.DueDate != nil && *t.DueDate > today
	default:
		return true
	}
}

// Sort: due soonest first (nil due dates last), then priority, then updated desc.
func sortTasks(out []model.Task) {
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].DueDate, out[j].DueDate
		switch {
		case di == nil && dj != nil:
			return false
		case di != nil && dj == nil:
			return true
		case di != nil && dj != nil && *di != *dj:
			return *di < *dj
		}
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
}
