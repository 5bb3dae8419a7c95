package model

// SectionID is a unique identifier for a section.
type SectionID string

// Section is an ordered list of tasks inside a project.
// TaskIDs are in display order (index 0 is the top of the list).
// Each task ID appears at most once per section.
type Section struct {
	ID        SectionID `json:"id"`
	ProjectID ProjectID `json:"projectId"`
	Name      string    `json:"name"`
	TaskIDs   []TaskID  `json:"taskIds"`
}

// NewSection creates a section with the given tasks in order.
func NewSection(id SectionID, projectID ProjectID, name string, taskIDs []TaskID) *Section {
	if taskIDs == nil {
		taskIDs = []TaskID{}
	}
	return &Section{
		ID:        id,
		ProjectID: projectID,
		Name:      name,
		TaskIDs:   taskIDs,
	}
}

// Size returns the number of tasks in the section.
func (s *Section) Size() int {
	return len(s.TaskIDs)
}

// IndexOf returns the position of a task, or -1 if absent.
func (s *Section) IndexOf(id TaskID) int {
	for i, tid := range s.TaskIDs {
		if tid == id {
			return i
		}
	}
	return -1
}

// Contains reports whether the task is in this section's list.
func (s *Section) Contains(id TaskID) bool {
	return s.IndexOf(id) >= 0
}

// InsertAt inserts a task at the given index. Out-of-range indices clamp
// to the ends of the list. Soft failure: no-op if the task is already present.
func (s *Section) InsertAt(id TaskID, index int) {
	if s.Contains(id) {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(s.TaskIDs) {
		index = len(s.TaskIDs)
	}
	s.TaskIDs = append(s.TaskIDs, "")
	copy(s.TaskIDs[index+1:], s.TaskIDs[index:])
	s.TaskIDs[index] = id
}

// Append adds a task at the end of the list.
// Soft failure: no-op if the task is already present.
func (s *Section) Append(id TaskID) {
	s.InsertAt(id, len(s.TaskIDs))
}

// Remove takes a task out of the list and returns its former index.
// Soft failure: returns -1 if the task wasn't present.
func (s *Section) Remove(id TaskID) int {
	idx := s.IndexOf(id)
	if idx < 0 {
		return -1
	}
	s.TaskIDs = append(s.TaskIDs[:idx], s.TaskIDs[idx+1:]...)
	return idx
}

// SetTaskIDs replaces the ordered list.
func (s *Section) SetTaskIDs(ids []TaskID) {
	if ids == nil {
		ids = []TaskID{}
	}
	s.TaskIDs = ids
}
