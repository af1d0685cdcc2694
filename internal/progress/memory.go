// Package progress tracks per-course learning state behind an injected
// storage boundary: completed lessons, exercise scores, and study time.
package progress

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kirikab-27/courselab/internal/domain"
)

// MemoryStore keeps progress records in memory. Used by tests and as the
// fallback when no durable backend is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*domain.ProgressRecord
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*domain.ProgressRecord),
	}
}

// Save stores a copy of the record keyed by course ID
func (s *MemoryStore) Save(ctx context.Context, record *domain.ProgressRecord) error {
	if record.CourseID == "" {
		return fmt.Errorf("%w: progress record has no course id", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.CourseID] = cloneRecord(record)
	return nil
}

// Get returns a copy of the course's record
func (s *MemoryStore) Get(ctx context.Context, courseID string) (*domain.ProgressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[courseID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProgressNotFound, courseID)
	}
	return cloneRecord(record), nil
}

// List returns copies of all records sorted by course ID
func (s *MemoryStore) List(ctx context.Context) ([]*domain.ProgressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*domain.ProgressRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, cloneRecord(record))
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CourseID < records[j].CourseID
	})
	return records, nil
}

// Delete removes the course's record
func (s *MemoryStore) Delete(ctx context.Context, courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[courseID]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrProgressNotFound, courseID)
	}
	delete(s.records, courseID)
	return nil
}

// cloneRecord copies a record so callers and the store never share slices
// or maps.
func cloneRecord(r *domain.ProgressRecord) *domain.ProgressRecord {
	clone := *r
	clone.CompletedLessons = append([]string(nil), r.CompletedLessons...)
	if r.ExerciseScores != nil {
		clone.ExerciseScores = make(map[string]int, len(r.ExerciseScores))
		for k, v := range r.ExerciseScores {
			clone.ExerciseScores[k] = v
		}
	}
	return &clone
}
