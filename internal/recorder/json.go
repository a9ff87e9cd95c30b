package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"TradeAdvisor/internal/model"
)

// JSONFileStore keeps the whole log as one indented JSON array.
// Every append rewrites the file; concurrent processes are last-writer-wins.
type JSONFileStore struct {
	path string
	mu   sync.Mutex
}

// NewJSONFileStore returns a store backed by path. The file is created on first append.
func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

func (s *JSONFileStore) Append(entry *model.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	entries = append(entries, *entry)
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode log: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func (s *JSONFileStore) ReadAll() ([]model.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// load returns an empty log if the file doesn't exist.
func (s *JSONFileStore) load() ([]model.LogEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.LogEntry{}, nil
		}
		return nil, fmt.Errorf("read log: %w", err)
	}
	var entries []model.LogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode log %s: %w", s.path, err)
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	return entries, nil
}

func (s *JSONFileStore) Close() error { return nil }
