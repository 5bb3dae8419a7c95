package model

// ProjectID is a unique identifier for a project.
type ProjectID string

// Project groups sections; SectionIDs are in display order.
type Project struct {
	ID         ProjectID   `json:"id"`
	Name       string      `json:"name"`
	Color      string      `json:"color,omitempty"`
	SectionIDs []SectionID `json:"sectionIds"`
}

// NewProject creates a project with no sections yet.
func NewProject(id ProjectID, name, color string) *Project {
	return &Project{
		ID:         id,
		Name:       name,
		Color:      color,
		SectionIDs: []SectionID{},
	}
}

// SectionIndex returns the position of a section, or -1 if absent.
func (p *Project) SectionIndex(id SectionID) int {
	for i, sid := range p.SectionIDs {
		if sid == id {
			return i
		}
	}
	return -1
}

// AddSection appends a section to the display order.
// Soft failure: no-op if already present.
func (p *Project) AddSection(id SectionID) {
	if p.SectionIndex(id) >= 0 {
		return
	}
	p.SectionIDs = append(p.SectionIDs, id)
}

// RemoveSection takes a section out of the display order.
// Soft failure: no-op if absent.
func (p *Project) RemoveSection(id SectionID) {
	idx := p.SectionIndex(id)
	if idx < 0 {
		return
	}
	p.SectionIDs = append(p.SectionIDs[:idx], p.SectionIDs[idx+1:]...)
}
