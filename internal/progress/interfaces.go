package progress

import (
	"context"

	"github.com/kirikab-27/courselab/internal/domain"
)

// ProgressService defines the interface for progress operations used by the
// daemon handlers and the attempt service
type ProgressService interface {
	// Initialize ensures a record exists for the course. Idempotent.
	Initialize(ctx context.Context, courseID string) (*domain.ProgressRecord, error)

	// Record returns the course's progress record, creating it on first access
	Record(ctx context.Context, courseID string) (*domain.ProgressRecord, error)

	// MarkLessonComplete adds a lesson to the completed set and reports
	// whether the set changed
	MarkLessonComplete(ctx context.Context, courseID, lessonID string) (bool, error)

	// RecordExerciseScore stores a score for an exercise, clamped to 0-100
	RecordExerciseScore(ctx context.Context, courseID, exerciseID string, score int) error

	// AddTimeSpent accumulates study minutes for a course
	AddTimeSpent(ctx context.Context, courseID string, minutes int) error

	// List returns progress records for every tracked course
	List(ctx context.Context) ([]*domain.ProgressRecord, error)

	// Overview aggregates progress across every tracked course
	Overview(ctx context.Context) (*Overview, error)

	// Reset discards the course's progress record
	Reset(ctx context.Context, courseID string) error
}

// Ensure Service implements ProgressService
var _ ProgressService = (*Service)(nil)

// Store defines the persistence interface for progress records.
// The in-memory, JSON file, SQLite, and Postgres stores implement this.
type Store interface {
	Save(ctx context.Context, record *domain.ProgressRecord) error
	Get(ctx context.Context, courseID string) (*domain.ProgressRecord, error)
	List(ctx context.Context) ([]*domain.ProgressRecord, error)
	Delete(ctx context.Context, courseID string) error
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
