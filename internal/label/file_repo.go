package label

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"tasktrove/internal/model"
)

type fileState struct {
	Users map[string]map[model.LabelID]model.Label `json:"users"`
}

type fileStore struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

// FileRepo is a persistent label repository.
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
		path: filepath.Join(dataDir, "labels.json"),
		s:    fileState{Users: map[string]map[model.LabelID]model.Label{}},
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
			return nil
		}
		return err
	}

	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Users == nil {
		loaded.Users = map[string]map[model.LabelID]model.Label{}
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

func (r *FileRepo) labelsLocked() map[model.LabelID]model.Label {
	m, ok := r.store.s.Users[r.userID]
	if !ok {
		m = map[model.LabelID]model.Label{}
		r.store.s.Users[r.userID] = m
	}
	return m
}

func (r *FileRepo) Create(name, color string) (model.Label, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m := r.labelsLocked()
	l := model.Label{ID: newID(), Name: name, Color: color}
	m[l.ID] = l
	return l, r.store.saveLocked()
}

func (r *FileRepo) Get(id model.LabelID) (model.Label, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if m, ok := r.store.s.Users[r.userID]; ok {
		if l, ok := m[id]; ok {
			return l, nil
		}
	}
	return model.Label{}, ErrNotFound
}

func (r *FileRepo) FindByName(name string) (model.Label, bool) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if m, ok := r.store.s.Users[r.userID]; ok {
		for _, l := range m {
			if strings.EqualFold(l.Name, name) {
				return l, true
			}
		}
	}
	return model.Label{}, false
}

func (r *FileRepo) Update(id model.LabelID, p Patch) (model.Label, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m := r.labelsLocked()
	l, ok := m[id]
	if !ok {
		return model.Label{}, ErrNotFound
	}
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Color != nil {
		l.Color = *p.Color
	}
	m[id] = l
	return l, r.store.saveLocked()
}

func (r *FileRepo) Delete(id model.LabelID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m := r.labelsLocked()
	if _, ok := m[id]; !ok {
		return ErrNotFound
	}
	delete(m, id)
	return r.store.saveLocked()
}

func (r *FileRepo) List() ([]model.Label, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	m := r.store.s.Users[r.userID]
	out := make([]model.Label, 0, len(m))
	for _, l := range m {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
