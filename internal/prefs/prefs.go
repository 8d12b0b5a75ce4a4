// Package prefs persists the single "last searched city" preference.
package prefs

import (
	"os"
	"strings"
	"sync"
)

// Store is a file-backed holder for the last searched city string. Reads
// and writes are safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a Store persisting to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// LastCity returns the persisted city, or "" when none has been saved.
func (s *Store) LastCity() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetLastCity persists city as the last searched city.
func (s *Store) SetLastCity(city string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return os.WriteFile(s.path, []byte(city+"\n"), 0o644)
}
