package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"NewscastDigest/internal/domain"
	"NewscastDigest/internal/ports"
)

// JSONStore keeps all ingested records in a single JSON file mapping date
// keys to record fragments. Every Append is a full load-merge-write cycle
// guarded by one mutex; the file itself is never assumed atomic.
type JSONStore struct {
	path string
	mu   sync.Mutex
}

var _ ports.RecordStore = (*JSONStore)(nil)

// NewJSONStore points the store at its backing file; the file is created
// on first append.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Append merges one record into the date's fragment list.
func (s *JSONStore) Append(dateKey string, record domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readAll()
	if err != nil {
		return err
	}

	data[dateKey] = append(data[dateKey], record)

	return s.writeAll(data)
}

// Load returns the fragments stored for one date key.
func (s *JSONStore) Load(dateKey string) ([]domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readAll()
	if err != nil {
		return nil, err
	}

	return data[dateKey], nil
}

func (s *JSONStore) readAll() (map[string][]domain.Record, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string][]domain.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}

	data := map[string][]domain.Record{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode store: %w", err)
	}

	return data, nil
}

func (s *JSONStore) writeAll(data map[string][]domain.Record) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}

	return nil
}
