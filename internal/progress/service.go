package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirikab-27/courselab/internal/domain"
)

// Service handles progress business logic on top of an injected store
type Service struct {
	store Store
}

// NewService creates a new progress service
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Initialize ensures a record exists for the course. Calling it again for
// the same course leaves existing state untouched.
func (s *Service) Initialize(ctx context.Context, courseID string) (*domain.ProgressRecord, error) {
	return s.ensureRecord(ctx, courseID)
}

// Record returns the course's progress record, creating an empty one on
// first access.
func (s *Service) Record(ctx context.Context, courseID string) (*domain.ProgressRecord, error) {
	return s.ensureRecord(ctx, courseID)
}

// MarkLessonComplete adds the lesson to the course's completed set. The
// returned bool reports whether this call changed the set.
func (s *Service) MarkLessonComplete(ctx context.Context, courseID, lessonID string) (bool, error) {
	record, err := s.ensureRecord(ctx, courseID)
	if err != nil {
		return false, err
	}

	if !record.MarkLessonComplete(lessonID) {
		return false, nil
	}

	if err := s.store.Save(ctx, record); err != nil {
		return false, fmt.Errorf("save progress record: %w", err)
	}
	return true, nil
}

// RecordExerciseScore stores a score for an exercise, clamped to the valid
// range. The previous value is overwritten; keep-best policy is the
// caller's concern.
func (s *Service) RecordExerciseScore(ctx context.Context, courseID, exerciseID string, score int) error {
	record, err := s.ensureRecord(ctx, courseID)
	if err != nil {
		return err
	}

	record.RecordScore(exerciseID, score)

	if err := s.store.Save(ctx, record); err != nil {
		return fmt.Errorf("save progress record: %w", err)
	}
	return nil
}

// AddTimeSpent accumulates study minutes for the course. Zero and negative
// values are ignored without touching the store.
func (s *Service) AddTimeSpent(ctx context.Context, courseID string, minutes int) error {
	if minutes <= 0 {
		return nil
	}

	record, err := s.ensureRecord(ctx, courseID)
	if err != nil {
		return err
	}

	record.AddTimeSpent(minutes)

	if err := s.store.Save(ctx, record); err != nil {
		return fmt.Errorf("save progress record: %w", err)
	}
	return nil
}

// List returns progress records for every tracked course
func (s *Service) List(ctx context.Context) ([]*domain.ProgressRecord, error) {
	return s.store.List(ctx)
}

// Reset discards the course's record. Resetting a course that was never
// tracked is a no-op.
func (s *Service) Reset(ctx context.Context, courseID string) error {
	err := s.store.Delete(ctx, courseID)
	if errors.Is(err, domain.ErrProgressNotFound) {
		return nil
	}
	return err
}

// ensureRecord loads the course's record, creating and persisting an empty
// one when none exists yet.
func (s *Service) ensureRecord(ctx context.Context, courseID string) (*domain.ProgressRecord, error) {
	record, err := s.store.Get(ctx, courseID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, domain.ErrProgressNotFound) {
		return nil, err
	}

	record = domain.NewProgressRecord(courseID)
	if err := s.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("save progress record: %w", err)
	}
	return record, nil
}
