package attempt

import (
	"context"
	"time"

	"github.com/kirikab-27/courselab/internal/domain"
)

// AttemptService defines the attempt lifecycle operations used by the
// daemon handlers and the MCP tools
type AttemptService interface {
	// Open creates a fresh attempt on an exercise
	Open(ctx context.Context, courseID, exerciseID string) (*Attempt, error)

	// Get returns a snapshot of an open attempt
	Get(ctx context.Context, id string) (*Attempt, error)

	// List returns snapshots of every open attempt
	List(ctx context.Context) ([]*Attempt, error)

	// Evaluate runs the submitted code through the evaluation pipeline and
	// applies the outcome to the attempt. A call superseded by a newer
	// evaluation or by reset/close returns domain.ErrAttemptSuperseded and
	// applies nothing.
	Evaluate(ctx context.Context, id, code string) (*domain.Evaluation, error)

	// RevealHint discloses one hint by index and returns its text
	RevealHint(ctx context.Context, id string, index int) (string, error)

	// RevealSolution discloses the reference solution and returns it
	RevealSolution(ctx context.Context, id string) (string, error)

	// Reset returns the attempt to its just-opened state
	Reset(ctx context.Context, id string) (*Attempt, error)

	// Close discards the attempt and records time spent on it
	Close(ctx context.Context, id string) error
}

// Ensure Service implements AttemptService
var _ AttemptService = (*Service)(nil)

// HistoryEntry is one evaluated attempt preserved for later review
type HistoryEntry struct {
	ID               string    `json:"id"`
	CourseID         string    `json:"course_id"`
	LessonID         string    `json:"lesson_id"`
	ExerciseID       string    `json:"exercise_id"`
	Score            int       `json:"score"`
	Scored           bool      `json:"scored"`
	Passed           bool      `json:"passed"`
	HintsRevealed    int       `json:"hints_revealed"`
	SolutionRevealed bool      `json:"solution_revealed"`
	CreatedAt        time.Time `json:"created_at"`
}

// History records evaluated attempts durably. The SQLite and Postgres
// stores implement this; recording is best-effort and never blocks the
// evaluation result.
type History interface {
	Append(ctx context.Context, entry *HistoryEntry) error
	ListByExercise(ctx context.Context, courseID, exerciseID string, limit int) ([]*HistoryEntry, error)
}
