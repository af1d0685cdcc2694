package local

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kirikab-27/courselab/internal/domain"
	"github.com/kirikab-27/courselab/internal/progress"
)

const progressCollection = "progress"

// ProgressStore implements progress persistence on top of the JSON file
// store, one file per course under <basePath>/progress/.
type ProgressStore struct {
	store *Store
}

// NewProgressStore creates a file-backed progress store rooted at basePath.
func NewProgressStore(basePath string) (*ProgressStore, error) {
	store, err := NewStore(basePath)
	if err != nil {
		return nil, err
	}
	return &ProgressStore{store: store}, nil
}

// Ensure ProgressStore implements the progress storage interface.
var _ progress.Store = (*ProgressStore)(nil)

// Save persists a progress record to its course file.
func (s *ProgressStore) Save(ctx context.Context, record *domain.ProgressRecord) error {
	if record.CourseID == "" {
		return fmt.Errorf("%w: progress record has no course id", domain.ErrInvalidInput)
	}
	return s.store.Save(progressCollection, record.CourseID, record)
}

// Get reads the course's progress record.
func (s *ProgressStore) Get(ctx context.Context, courseID string) (*domain.ProgressRecord, error) {
	var record domain.ProgressRecord
	if err := s.store.Load(progressCollection, courseID, &record); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProgressNotFound, courseID)
		}
		return nil, err
	}
	if record.CompletedLessons == nil {
		record.CompletedLessons = []string{}
	}
	if record.ExerciseScores == nil {
		record.ExerciseScores = make(map[string]int)
	}
	return &record, nil
}

// List returns records for every tracked course, sorted by course ID.
func (s *ProgressStore) List(ctx context.Context) ([]*domain.ProgressRecord, error) {
	ids, err := s.store.List(progressCollection)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)

	records := make([]*domain.ProgressRecord, 0, len(ids))
	for _, id := range ids {
		record, err := s.Get(ctx, id)
		if err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Delete removes the course's progress file.
func (s *ProgressStore) Delete(ctx context.Context, courseID string) error {
	if err := s.store.Delete(progressCollection, courseID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: %s", domain.ErrProgressNotFound, courseID)
		}
		return err
	}
	return nil
}
