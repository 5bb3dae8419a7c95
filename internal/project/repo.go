package project

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"tasktrove/internal/model"
)

var (
	ErrNotFound        = errors.New("project not found")
	ErrSectionNotFound = errors.New("section not found")
)

// Patch represents a partial project update.
// nil pointer => "no change".
type Patch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

type Repo interface {
	CreateProject(name, color string) (model.Project, error)
	GetProject(id model.ProjectID) (model.Project, error)
	FindProjectByName(name string) (model.Project, bool)
	UpdateProject(id model.ProjectID, p Patch) (model.Project, error)
	DeleteProject(id model.ProjectID) error
	ListProjects() ([]model.Project, error)

	CreateSection(projectID model.ProjectID, name string) (model.Section, error)
	GetSection(id model.SectionID) (model.Section, error)
	RenameSection(id model.SectionID, name string) (model.Section, error)
	DeleteSection(id model.SectionID) error
	ListSections(projectID model.ProjectID) ([]model.Section, error)

	// AppendTask places a task at the end of a section's ordered list.
	AppendTask(sectionID model.SectionID, taskID model.TaskID) error
	// RemoveTask drops a task from whichever section lists it.
	// Soft failure: no-op when no section does.
	RemoveTask(taskID model.TaskID) error
	// ApplyMove resolves a drop gesture and persists the updated lists
	// atomically. moved=false means the drop was a no-op.
	ApplyMove(intent DropIntent) (plan MovePlan, moved bool, err error)
}

func newProjectID() model.ProjectID {
	return model.ProjectID("proj_" + randomHex())
}

func newSectionID() model.SectionID {
	return model.SectionID("sect_" + randomHex())
}

func randomHex() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
