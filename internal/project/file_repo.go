package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"tasktrove/internal/model"
)

type fileState struct {
	Users map[string]userProjectState `json:"users"`
}

type userProjectState struct {
	Projects map[model.ProjectID]model.Project `json:"projects"`
	Sections map[model.SectionID]model.Section `json:"sections"`
}

func newFileState() fileState {
	return fileState{Users: map[string]userProjectState{}}
}

func newUserProjectState() userProjectState {
	return userProjectState{
		Projects: map[model.ProjectID]model.Project{},
		Sections: map[model.SectionID]model.Section{},
	}
}

type fileStore struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

// FileRepo is a persistent project/section repository.
// It is user-scoped; call ForUser(userID) to get a scoped view.
type FileRepo struct {
	store  *fileStore
	userID string
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	st := &fileStore{
		path: filepath.Join(dataDir, "projects.json"),
		s:    newFileState(),
	}
	if err := st.load(); err != nil {
		return nil, err
	}
	return &FileRepo{store: st, userID: "default"}, nil
}

func (s *fileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.s = newFileState()
			return nil
		}
		return err
	}

	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Users == nil {
		loaded.Users = map[string]userProjectState{}
	}
	for uid, us := range loaded.Users {
		if us.Projects == nil {
			us.Projects = map[model.ProjectID]model.Project{}
		}
		if us.Sections == nil {
			us.Sections = map[model.SectionID]model.Section{}
		}
		loaded.Users[uid] = us
	}
	s.s = loaded
	return nil
}

func (s *fileStore) saveLocked() error {
	b, err := json.MarshalIndent(s.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (r *FileRepo) ForUser(userID string) *FileRepo {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = "default"
	}
	return &FileRepo{store: r.store, userID: userID}
}

func (r *FileRepo) userStateLocked() userProjectState {
	us, ok := r.store.s.Users[r.userID]
	if !ok {
		us = newUserProjectState()
		r.store.s.Users[r.userID] = us
		return us
	}
	if us.Projects == nil {
		us.Projects = map[model.ProjectID]model.Project{}
	}
	if us.Sections == nil {
		us.Sections = map[model.SectionID]model.Section{}
	}
	r.store.s.Users[r.userID] = us
	return us
}

func normalizeProject(p *model.Project) {
	if p.SectionIDs == nil {
		p.SectionIDs = []model.SectionID{}
	}
}

func normalizeSection(s *model.Section) {
	if s.TaskIDs == nil {
		s.TaskIDs = []model.TaskID{}
	}
}

func (r *FileRepo) CreateProject(name, color string) (model.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	us := r.userStateLocked()

	p := *model.NewProject(newProjectID(), name, color)

	// Every project starts with one unnamed section holding the flat list.
	s := *model.NewSection(newSectionID(), p.ID, "", nil)
	p.AddSection(s.ID)

	us.Projects[p.ID] = p
	us.Sections[s.ID] = s
	return p, r.store.saveLocked()
}

func (r *FileRepo) GetProject(id model.ProjectID) (model.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	us, ok := r.store.s.Users[r.userID]
	if !ok {
		return model.Project{}, ErrNotFound
	}
	p, ok := us.Projects[id]
	if !ok {
		return model.Project{}, ErrNotFound
	}
	normalizeProject(&p)
	return p, nil
}

func (r *FileRepo) FindProjectByName(name string) (model.Project, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	us, ok := r.store.s.Users[r.userID]
	if !ok {
		return model.Project{}, false
	}
	for _, p := range us.Projects {
		if strings.EqualFold(p.Name, name) {
			normalizeProject(&p)
			return p, true
		}
	}
	return model.Project{}, false
}

func (r *FileRepo) UpdateProject(id model.ProjectID, patch Patch) (model.Project, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	us := r.userStateLocked()
	p, ok := us.Projects[id]
	if !ok {
		return model.Project{}, ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Color != nil {
		p.Color = *patch.Color
	}
	normalizeProject(&p)
	us.Projects[id] = p
	return p, r.store.saveLocked()
}

func (r *FileRepo) DeleteProject(id model.ProjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	us := r.userStateLocked()
	p, ok := us.Projects[id]
	if !ok {
		return ErrNotFound
	}
	for _, sid := range p.SectionIDs {
		delete(us.Sections, sid)
	}
	delete(us.Projects, id)
	return r.store.saveLocked()
}

func (r *FileRepo) ListProjects() ([]model.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	us, ok := r.store.s.Users[r.userID]
	if !ok {
		return []model.Project{}, nil
	}
	out := make([]model.Project, 0, len(us.Projects))
	for _, p := range us.Projects {
		normalizeProject(&p)
		out = append(out, p)
	}
	return out, nil
}

func (r *FileRepo) CreateSection(projectID model.ProjectID, name string) (model.Section, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	us := r.userStateLocked()
	p, ok := us.Projects[projectID]
	if !ok {
		return model.Section{}, ErrNotFound
	}

	s := *model.NewSection(newSectionID(), projectID, name, nil)
	p.AddSection(s.ID)
	us.Projects[projectID] = p
	us.Sections[s.ID] = s
	return s, r.store.saveLocked()
}

func (r *FileRepo) GetSection(id model.SectionID) (model.Section, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	us, ok := r.store.s.Users[r.userID]
	if !ok {
		return model.Section{}, ErrSectionNotFound
	}
	s, ok := us.Sections[id]
	if !ok {
		return model.Section{}, ErrSectionNotFound
	}
	normalizeSection(&s)
	return s, nil
}

func (r *FileRepo) RenameSection(id model.SectionID, name string) (model.Section, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	us := r.userStateLocked()
	s, ok := us.Sections[id]
	if !ok {
		return model.Section{}, ErrSectionNotFound
	}
	s.Name = name
	normalizeSection(&s)
	us.Sections[id] = s
	return s, r.store.saveLocked()
}

func (r *FileRepo) DeleteSection(id model.SectionID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	us := r.userStateLocked()
	s, ok := us.Sections[id]
	if !ok {
		return ErrSectionNotFound
	}
	if p, ok := us.Projects[s.ProjectID]; ok {
		p.RemoveSection(id)
		us.Projects[s.ProjectID] = p
	}
	delete(us.Sections, id)
	return r.store.saveLocked()
}

func (r *FileRepo) ListSections(projectID model.ProjectID) ([]model.Section, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	us, ok := r.store.s.Users[r.userID]
	if !ok {
		return []model.Section{}, nil
	}
	p, ok := us.Projects[projectID]
	if !ok {
		return nil, ErrNotFound
	}

	// Project display order, not map order.
	out := make([]model.Section, 0, len(p.SectionIDs))
	for _, sid := range p.SectionIDs {
		if s, ok := us.Sections[sid]; ok {
			normalizeSection(&s)
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *FileRepo) AppendTask(sectionID model.SectionID, taskID model.TaskID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	us := r.userStateLocked()
	s, ok := us.Sections[sectionID]
	if !ok {
		return ErrSectionNotFound
	}
	s.Append(taskID)
	us.Sections[sectionID] = s
	return r.store.saveLocked()
}

func (r *FileRepo) RemoveTask(taskID model.TaskID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	us := r.userStateLocked()
	changed := false
	for sid, s := range us.Sections {
		if s.Remove(taskID) >= 0 {
			us.Sections[sid] = s
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.store.saveLocked()
}

func (r *FileRepo) ApplyMove(intent DropIntent) (MovePlan, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	us := r.userStateLocked()
	source, ok := us.Sections[intent.FromSectionID]
	if !ok {
		return MovePlan{}, false, ErrSectionNotFound
	}
	target, ok := us.Sections[intent.ToSectionID]
	if !ok {
		return MovePlan{}, false, ErrSectionNotFound
	}

	plan, moved := PlanMove(intent, source.TaskIDs, target.TaskIDs)
	if !moved {
		return MovePlan{}, false, nil
	}

	// Both lists swap in together so a task is never in two sections.
	source.SetTaskIDs(plan.SourceTaskIDs)
	target.SetTaskIDs(plan.TargetTaskIDs)
	us.Sections[intent.FromSectionID] = source
	us.Sections[intent.ToSectionID] = target

	return plan, true, r.store.saveLocked()
}
