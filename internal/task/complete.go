package task

import (
	"time"

	"tasktrove/internal/model"
	"tasktrove/internal/schedule"
)

type CompletionResult struct {
	Completed   bool
	Rescheduled bool
	NextDue     string
}

// BuildCompletionUpdate computes the patch applied when a task is
// marked done. A recurring task rolls to its next occurrence instead of
// closing: the anchor date follows the task's recurring mode, and a
// rule string that fails to parse leaves the due date untouched and
// completes the task like any other.
func BuildCompletionUpdate(cur model.Task, completedAt time.Time) (Patch, CompletionResult) {
	if cur.IsRecurring() {
		rule := schedule.ParseRule(*cur.Recurrence)
		if rule != nil {
			anchor := schedule.Anchor(cur.RecurringMode, cur.DueDate, completedAt)
			initial := cur.DueDate == nil || *cur.DueDate == ""
			if next, ok := schedule.NextDueDate(rule, anchor, initial, completedAt); ok {
				nextDue := next.Format(schedule.DateLayout)
				done := false
				return Patch{
						Done:        &done,
						DueDate:     &nextDue,
						CompletedAt: &completedAt,
					}, CompletionResult{
						Rescheduled: true,
						NextDue:     nextDue,
					}
			}
		}
	}

	done := true
	return Patch{
		Done:        &done,
		CompletedAt: &completedAt,
	}, CompletionResult{Completed: true}
}
