package config

import (
	"sync/atomic"

	"github.com/toolgate/toolgate/internal/logger"
)

// Store publishes configuration snapshots atomically. Loading a new
// snapshot never disturbs in-flight dispatches: they keep the pointer
// they read at dispatch start, readers are lock-free, and a failed
// reload leaves the previous snapshot live.
type Store struct {
	dir  string
	snap atomic.Pointer[Snapshot]
}

// NewStore creates a store over the given config directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the config directory the store loads from.
func (s *Store) Dir() string {
	return s.dir
}

// Load validates the config directory and publishes the new snapshot.
// On error the previously published snapshot (if any) remains current.
func (s *Store) Load() error {
	snap, err := Load(s.dir)
	if err != nil {
		return err
	}
	s.snap.Store(snap)
	logger.Debug("config snapshot published",
		"dir", s.dir, "rules", len(snap.Rules), "hooks", len(snap.Hooks))
	return nil
}

// Snapshot returns the current snapshot, or nil before the first
// successful Load.
func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}
