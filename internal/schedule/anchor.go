package schedule

import (
	"time"

	"tasktrove/internal/model"
)

// Anchor picks the reference date used to roll a recurring task forward
// after completion, according to the task's recurring mode.
//
// In due_date mode the original due date keeps the series on its fixed
// cadence; in completed_at mode the series adapts to when the task was
// actually finished. A task with no due date always anchors on the
// completion time.
func Anchor(mode model.RecurringMode, dueDate *string, completedAt time.Time) time.Time {
	if mode == model.RecurringModeCompletedAt || dueDate == nil || *dueDate == "" {
		return completedAt
	}
	due, err := time.ParseInLocation(DateLayout, *dueDate, completedAt.Location())
	if err != nil {
		return completedAt
	}
	return due
}
