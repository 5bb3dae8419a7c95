package model

import "time"

type TaskID string

// RecurringMode selects the anchor date used when a recurring task is
// completed and its next occurrence is computed.
type RecurringMode string

const (
	// RecurringModeDueDate reschedules from the task's original due date
	// (fixed cadence: a Friday task completed on Tuesday stays on Fridays).
	RecurringModeDueDate RecurringMode = "due_date"
	// RecurringModeCompletedAt reschedules from the completion timestamp
	// (adaptive cadence: completing early shifts the whole series).
	RecurringModeCompletedAt RecurringMode = "completed_at"
)

// Priority follows the quick-add convention: p1 is the most urgent,
// p4 is the default.
type Priority int

const (
	PriorityUrgent Priority = 1
	PriorityHigh   Priority = 2
	PriorityMedium Priority = 3
	PriorityLow    Priority = 4
)

func (p Priority) Valid() bool {
	return p >= PriorityUrgent && p <= PriorityLow
}

type Task struct {
	ID          TaskID    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
	Priority    Priority  `json:"priority"`
	ProjectID   ProjectID `json:"projectId,omitempty"`
	SectionID   SectionID `json:"sectionId,omitempty"`
	Labels      []LabelID `json:"labels,omitempty"`

	// DueDate is a calendar date (YYYY-MM-DD). Recurrence is the compact
	// rule string (e.g. "FREQ=WEEKLY;INTERVAL=2"); it is re-parsed on each
	// use, never cached as an object.
	DueDate       *string       `json:"dueDate,omitempty"`
	Recurrence    *string       `json:"recurrence,omitempty"`
	RecurringMode RecurringMode `json:"recurringMode,omitempty"`

	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsRecurring reports whether the task carries a recurrence rule string.
// The string may still fail to parse; callers treat that as "not recurring".
func (t *Task) IsRecurring() bool {
	return t.Recurrence != nil && *t.Recurrence != ""
}

// HasLabel reports whether the task carries the given label.
func (t *Task) HasLabel(id LabelID) bool {
	for _, l := range t.Labels {
		if l == id {
			return true
		}
	}
	return false
}
