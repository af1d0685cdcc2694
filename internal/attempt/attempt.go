package attempt

import (
	"time"

	"github.com/google/uuid"

	"github.com/kirikab-27/courselab/internal/domain"
)

// State represents where an attempt sits in its lifecycle
type State string

const (
	// StateNotStarted means the exercise view is open but nothing was evaluated
	StateNotStarted State = "not_started"
	// StateAttempted means at least one evaluation ran, none passing yet
	StateAttempted State = "attempted"
	// StateCompleted means a passing evaluation was recorded. Terminal for
	// completion side effects; re-evaluations may still run.
	StateCompleted State = "completed"
)

// Attempt is one learner's working session on an exercise. It tracks the
// editor code, which hints and solution were revealed, and the evaluation
// state machine. Attempts live in memory only and are discarded on close.
type Attempt struct {
	ID         string `json:"id"`
	CourseID   string `json:"course_id"`
	LessonID   string `json:"lesson_id"`
	ExerciseID string `json:"exercise_id"`
	State      State  `json:"state"`
	Code       string `json:"code"`

	// Disclosure state. Revealing is monotonic: indices are only ever
	// added, and the solution flag is only ever set. Reset is the single
	// way back.
	RevealedHints    []int `json:"revealed_hints"`
	SolutionRevealed bool  `json:"solution_revealed"`

	// Exercise shape captured at open time so disclosure stays valid
	// even if the catalog reloads underneath the attempt.
	HintTotal   int  `json:"hint_total"`
	HasSolution bool `json:"has_solution"`

	// Statistics
	Evaluations     int                `json:"evaluations"`
	LastEvaluation  *domain.Evaluation `json:"last_evaluation,omitempty"`
	LastEvaluatedAt *time.Time         `json:"last_evaluated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAttempt opens a fresh attempt on an exercise, seeded with its starter code
func NewAttempt(courseID string, exercise *domain.Exercise) *Attempt {
	now := time.Now()
	return &Attempt{
		ID:          uuid.New().String(),
		CourseID:    courseID,
		LessonID:    exercise.LessonID,
		ExerciseID:  exercise.ID,
		State:       StateNotStarted,
		Code:        exercise.StarterCode,
		HintTotal:   exercise.HintCount(),
		HasSolution: exercise.HasSolution(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpdateCode replaces the attempt's working code
func (a *Attempt) UpdateCode(code string) {
	a.Code = code
	a.UpdatedAt = time.Now()
}

// RevealHint marks a hint index as revealed and reports whether the set
// changed. Indices outside the exercise's hint list are rejected, so the
// revealed set always holds valid indices.
func (a *Attempt) RevealHint(index int) (bool, error) {
	if index < 0 || index >= a.HintTotal {
		return false, domain.ErrHintIndex
	}
	for _, i := range a.RevealedHints {
		if i == index {
			return false, nil
		}
	}
	a.RevealedHints = append(a.RevealedHints, index)
	a.UpdatedAt = time.Now()
	return true, nil
}

// RevealSolution sets the solution flag and reports whether it changed.
// Idempotent: the penalty applies once no matter how often it is called.
func (a *Attempt) RevealSolution() (bool, error) {
	if !a.HasSolution {
		return false, domain.ErrNoSolution
	}
	if a.SolutionRevealed {
		return false, nil
	}
	a.SolutionRevealed = true
	a.UpdatedAt = time.Now()
	return true, nil
}

// Disclosure returns the current disclosure counts for scoring
func (a *Attempt) Disclosure() domain.Disclosure {
	return domain.Disclosure{
		HintsRevealed:    len(a.RevealedHints),
		SolutionRevealed: a.SolutionRevealed,
	}
}

// Begin moves a fresh attempt into the attempted state. Called when an
// evaluation starts, regardless of how it turns out; later evaluations
// leave the state untouched.
func (a *Attempt) Begin() {
	if a.State == StateNotStarted {
		a.State = StateAttempted
		a.UpdatedAt = time.Now()
	}
}

// RecordEvaluation applies one finished evaluation to the attempt and
// reports whether it completed the attempt. Completion fires only on the
// first passing evaluation; later passes return false so side effects
// stay one-shot.
func (a *Attempt) RecordEvaluation(eval *domain.Evaluation) bool {
	now := time.Now()
	a.Evaluations++
	a.LastEvaluation = eval
	a.LastEvaluatedAt = &now
	a.UpdatedAt = now

	if a.State == StateNotStarted {
		a.State = StateAttempted
	}
	if eval.Passed && a.State == StateAttempted {
		a.State = StateCompleted
		return true
	}
	return false
}

// Reset returns the attempt to its just-opened shape: starter code, no
// revealed hints, no solution flag, no evaluations. The attempt keeps its
// identity so open views stay bound to the same ID.
func (a *Attempt) Reset(starterCode string) {
	a.State = StateNotStarted
	a.Code = starterCode
	a.RevealedHints = nil
	a.SolutionRevealed = false
	a.Evaluations = 0
	a.LastEvaluation = nil
	a.LastEvaluatedAt = nil
	a.UpdatedAt = time.Now()
}

// Clone returns a copy safe to hand outside the service's lock
func (a *Attempt) Clone() *Attempt {
	clone := *a
	if a.RevealedHints != nil {
		clone.RevealedHints = append([]int(nil), a.RevealedHints...)
	}
	if a.LastEvaluation != nil {
		eval := *a.LastEvaluation
		if a.LastEvaluation.ValidationErrors != nil {
			eval.ValidationErrors = append([]domain.ValidationError(nil), a.LastEvaluation.ValidationErrors...)
		}
		if a.LastEvaluation.ExecutionResult != nil {
			result := *a.LastEvaluation.ExecutionResult
			eval.ExecutionResult = &result
		}
		clone.LastEvaluation = &eval
	}
	if a.LastEvaluatedAt != nil {
		at := *a.LastEvaluatedAt
		clone.LastEvaluatedAt = &at
	}
	return &clone
}
