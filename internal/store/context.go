package store

import (
	"errors"
	"sync"
	"time"

	"github.com/kioskdash/kioskdash/internal/dashboard"
)

// ErrEmpty is returned when no generation has completed yet.
var ErrEmpty = errors.New("no dashboard generation available")

// Generation is one completed build of the render context.
type Generation struct {
	RunID   string            `json:"run_id"`
	At      time.Time         `json:"at"`
	Context dashboard.Context `json:"context"`
}

// ContextStore is a concurrency-safe in-memory store of recent generations.
// The serve-mode API reads the latest while the scheduler writes new ones.
type ContextStore struct {
	mu sync.RWMutex

	generations []Generation
	maxHistory  int // <= 0 means unlimited
}

// NewContextStore creates a store retaining up to maxHistory generations.
func NewContextStore(maxHistory int) *ContextStore {
	return &ContextStore{maxHistory: maxHistory}
}

// Save appends a generation and enforces retention.
func (s *ContextStore) Save(gen Generation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generations = append(s.generations, gen)
	if s.maxHistory > 0 && len(s.generations) > s.maxHistory {
		over := len(s.generations) - s.maxHistory
		s.generations = s.generations[over:]
	}
}

// Latest returns the most recent generation.
func (s *ContextStore) Latest() (Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.generations) == 0 {
		return Generation{}, ErrEmpty
	}
	return s.generations[len(s.generations)-1], nil
}

// History returns all retained generations, oldest first.
func (s *ContextStore) History() []Generation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Generation, len(s.generations))
	copy(out, s.generations)
	return out
}
