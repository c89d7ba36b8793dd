package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/pantrio/zaru-visits/services/visits-service/internal/model"
)

// FileStore keeps the whole collection in a single JSON document,
// rewritten on every mutation. Writes are serialized per process with a
// mutex; concurrent processes sharing the file can still lose updates
// (last writer wins), which is a known limitation of this backend.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

type fileDocument struct {
	Appointments []model.Appointment `json:"appointments"`
}

func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// load reads the snapshot fresh on every call so restarts and sibling
// instances observe each other's writes. Missing or corrupt files yield
// an empty collection; the corruption is logged, not surfaced.
func (s *FileStore) load() []model.Appointment {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("appointment store load failed", "path", s.path, "err", err)
		}
		return nil
	}
	var doc fileDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.logger.Error("appointment store is corrupt, starting empty", "path", s.path, "err", err)
		return nil
	}
	return doc.Appointments
}

func (s *FileStore) persist(appts []model.Appointment) error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
	}
	raw, err := json.MarshalIndent(fileDocument{Appointments: appts}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode appointments: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write appointments: %w", err)
	}
	return nil
}

func (s *FileStore) All(_ context.Context) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

func (s *FileStore) ForDate(_ context.Context, date string) ([]model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Appointment
	for _, appt := range s.load() {
		if appt.Date == date {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (s *FileStore) Append(_ context.Context, appt model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	appts := append(s.load(), appt)
	return s.persist(appts)
}

func (s *FileStore) SetExternalEventID(_ context.Context, id, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	appts := s.load()
	for i := range appts {
		if appts[i].ID == id {
			appts[i].ExternalEventID = eventID
			return s.persist(appts)
		}
	}
	return fmt.Errorf("appointment %s not found", id)
}
