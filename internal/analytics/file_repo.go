package analytics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type fileState struct {
	Users map[string][]Event `json:"users"`
}

type fileStore struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

// FileRepo is a persistent event repository.
// It is user-scoped; call ForUser(userID) to get a scoped view.
type FileRepo struct {
	store  *fileStore
	userID string
	now    func() time.Time
}

func NewFileRepo(dataDir string) (*FileRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	st := &fileStore{
		path: filepath.Join(dataDir, "events.json"),
		s:    fileState{Users: map[string][]Event{}},
	}
	if err := st.load(); err != nil {
		return nil, err
	}
	return &FileRepo{store: st, userID: "default", now: time.Now}, nil
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
		loaded.Users = map[string][]Event{}
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
	return &FileRepo{store: r.store, userID: userID, now: r.now}
}

func (r *FileRepo) RecordEvent(eventType EventType, metadata EventMetadata) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	event := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: r.now(),
		Metadata:  string(metadataJSON),
	}
	r.store.s.Users[r.userID] = append(r.store.s.Users[r.userID], event)

	return r.store.saveLocked()
}

func (r *FileRepo) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	typeFilter := make(map[EventType]bool)
	for _, t := range eventTypes {
		typeFilter[t] = true
	}

	result := make([]Event, 0)
	for _, event := range r.store.s.Users[r.userID] {
		if event.Timestamp.Before(since) {
			continue
		}
		if len(eventTypes) > 0 && !typeFilter[event.Type] {
			continue
		}
		result = append(result, event)
	}

	return result, nil
}

func (r *FileRepo) Clear() error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.s.Users, r.userID)
	return r.store.saveLocked()
}
