// Package settings persists the runtime configuration that the UI can edit:
// the hub credential and the target dataset repository.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/starford/rasoi/internal/storage"
)

// Settings is the whole runtime configuration blob. It is always loaded and
// saved as a unit.
type Settings struct {
	HubToken string `json:"hub_token,omitempty"`
	RepoID   string `json:"repo_id,omitempty"`
}

// Store reads and writes the settings file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a Store backed by the JSON file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the whole blob. A missing file yields the zero value.
func (s *Store) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out Settings
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return out, fmt.Errorf("settings: read %s: %w", s.path, err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("settings: parse %s: %w", s.path, err)
	}
	return out, nil
}

// Save rewrites the whole blob atomically.
func (s *Store) Save(cfg Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	return storage.WriteAtomic(s.path, append(data, '\n'))
}
