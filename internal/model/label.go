package model

// LabelID is a unique identifier for a label.
type LabelID string

// Label is a cross-project tag attached to tasks.
type Label struct {
	ID    LabelID `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color,omitempty"`
}
