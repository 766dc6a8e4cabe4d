package brain

import (
	"sync"

	"github.com/wonny/valuescan/internal/contracts"
)

// LatestStore holds the most recent scan in memory only.
// Historical scans are never kept.
type LatestStore struct {
	mu   sync.RWMutex
	scan *contracts.RankedScan
}

// NewLatestStore creates an empty store
func NewLatestStore() *LatestStore {
	return &LatestStore{}
}

// Set replaces the latest scan
func (s *LatestStore) Set(scan *contracts.RankedScan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scan = scan
}

// Latest returns the latest scan, false before the first one
func (s *LatestStore) Latest() (*contracts.RankedScan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scan, s.scan != nil
}
