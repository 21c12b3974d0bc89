package preview

import (
	"sync"
	"time"
)

// Status tracks the outcome of the most recent build for /healthz.
type Status struct {
	mu           sync.RWMutex
	lastError    error
	lastBuild    time.Time
	builds       int
	hasGoodBuild bool // true if at least one successful build exists
}

func (s *Status) setError(err error, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err
	s.lastBuild = at
	s.builds++
}

func (s *Status) setSuccess(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = nil
	s.lastBuild = at
	s.builds++
	s.hasGoodBuild = true
}

// Snapshot returns the current state.
func (s *Status) Snapshot() (lastErr error, hasGoodBuild bool, builds int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError, s.hasGoodBuild, s.builds
}
