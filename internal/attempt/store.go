package attempt

import (
	"sort"
	"sync"

	"github.com/kirikab-27/courselab/internal/domain"
)

// Store holds open attempts in memory. Attempts are working state for an
// open exercise view, so they are deliberately not persisted: closing the
// view or restarting the daemon discards them. Evaluation outcomes that
// matter long-term flow into progress records and the attempt history.
type Store struct {
	mu       sync.RWMutex
	attempts map[string]*Attempt
}

// NewStore creates an empty attempt store
func NewStore() *Store {
	return &Store{
		attempts: make(map[string]*Attempt),
	}
}

// Save adds or replaces an attempt
func (s *Store) Save(a *Attempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[a.ID] = a
}

// Get returns the live attempt for an ID. Callers hand copies outward;
// the stored value is mutated in place by the service.
func (s *Store) Get(id string) (*Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.attempts[id]
	if !ok {
		return nil, domain.ErrAttemptNotFound
	}
	return a, nil
}

// Delete removes an attempt
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.attempts[id]; !ok {
		return domain.ErrAttemptNotFound
	}
	delete(s.attempts, id)
	return nil
}

// List returns all open attempts ordered by creation time
func (s *Store) List() []*Attempt {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attempts := make([]*Attempt, 0, len(s.attempts))
	for _, a := range s.attempts {
		attempts = append(attempts, a)
	}
	sort.Slice(attempts, func(i, j int) bool {
		return attempts[i].CreatedAt.Before(attempts[j].CreatedAt)
	})
	return attempts
}

// Count returns the number of open attempts
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.attempts)
}
