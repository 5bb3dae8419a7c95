package analytics

import "time"

type EventType string

const (
	EventTaskCreated     EventType = "task_created"
	EventTaskCompleted   EventType = "task_completed"
	EventTaskRescheduled EventType = "task_rescheduled"
	EventTaskMoved       EventType = "task_moved"
	EventFocusCompleted  EventType = "focus_completed"
	EventFocusCanceled   EventType = "focus_canceled"
)

type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}

// Repository stores analytics events.
type Repository interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
	Clear() error
}
