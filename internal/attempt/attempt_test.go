package attempt

import (
	"errors"
	"testing"

	"github.com/kirikab-27/courselab/internal/domain"
)

func testExercise() *domain.Exercise {
	return &domain.Exercise{
		ID:          "ex-hello",
		LessonID:    "intro",
		Title:       "Say Hello",
		Difficulty:  domain.DifficultyBeginner,
		StarterCode: "class Program { }",
		Solution:    "class Program { static void Main() { } }",
		Hints:       []string{"first hint", "second hint", "third hint"},
		Language:    domain.LanguageCSharp,
	}
}

func TestNewAttempt(t *testing.T) {
	ex := testExercise()
	a := NewAttempt("csharp-basics", ex)

	if a.ID == "" {
		t.Error("expected a generated ID")
	}
	if a.CourseID != "csharp-basics" {
		t.Errorf("CourseID = %q, want %q", a.CourseID, "csharp-basics")
	}
	if a.LessonID != "intro" {
		t.Errorf("LessonID = %q, want %q", a.LessonID, "intro")
	}
	if a.ExerciseID != "ex-hello" {
		t.Errorf("ExerciseID = %q, want %q", a.ExerciseID, "ex-hello")
	}
	if a.State != StateNotStarted {
		t.Errorf("State = %q, want %q", a.State, StateNotStarted)
	}
	if a.Code != ex.StarterCode {
		t.Errorf("Code = %q, want starter code", a.Code)
	}
	if a.HintTotal != 3 {
		t.Errorf("HintTotal = %d, want 3", a.HintTotal)
	}
	if !a.HasSolution {
		t.Error("expected HasSolution to be true")
	}
	if len(a.RevealedHints) != 0 || a.SolutionRevealed {
		t.Error("expected a fresh attempt with nothing revealed")
	}
}

func TestAttempt_RevealHint(t *testing.T) {
	a := NewAttempt("csharp-basics", testExercise())

	changed, err := a.RevealHint(0)
	if err != nil {
		t.Fatalf("RevealHint(0) error: %v", err)
	}
	if !changed {
		t.Error("expected first reveal to change the set")
	}

	// Revealing the same hint again is a no-op.
	changed, err = a.RevealHint(0)
	if err != nil {
		t.Fatalf("RevealHint(0) again error: %v", err)
	}
	if changed {
		t.Error("expected repeated reveal to report no change")
	}

	if _, err := a.RevealHint(1); err != nil {
		t.Fatalf("RevealHint(1) error: %v", err)
	}

	disc := a.Disclosure()
	if disc.HintsRevealed != 2 {
		t.Errorf("HintsRevealed = %d, want 2", disc.HintsRevealed)
	}
}

func TestAttempt_RevealHint_OutOfRange(t *testing.T) {
	a := NewAttempt("csharp-basics", testExercise())

	for _, index := range []int{-1, 3, 99} {
		if _, err := a.RevealHint(index); !errors.Is(err, domain.ErrHintIndex) {
			t.Errorf("RevealHint(%d) error = %v, want ErrHintIndex", index, err)
		}
	}
	if len(a.RevealedHints) != 0 {
		t.Error("rejected reveals must not touch the revealed set")
	}
}

func TestAttempt_RevealSolution(t *testing.T) {
	a := NewAttempt("csharp-basics", testExercise())

	changed, err := a.RevealSolution()
	if err != nil {
		t.Fatalf("RevealSolution error: %v", err)
	}
	if !changed {
		t.Error("expected first reveal to change the flag")
	}

	changed, err = a.RevealSolution()
	if err != nil {
		t.Fatalf("RevealSolution again error: %v", err)
	}
	if changed {
		t.Error("expected repeated reveal to report no change")
	}

	disc := a.Disclosure()
	if !disc.SolutionRevealed {
		t.Error("expected SolutionRevealed in disclosure")
	}
}

func TestAttempt_RevealSolution_NoneAvailable(t *testing.T) {
	ex := testExercise()
	ex.Solution = ""
	a := NewAttempt("csharp-basics", ex)

	if _, err := a.RevealSolution(); !errors.Is(err, domain.ErrNoSolution) {
		t.Errorf("RevealSolution error = %v, want ErrNoSolution", err)
	}
}

func TestAttempt_Begin(t *testing.T) {
	a := NewAttempt("csharp-basics", testExercise())

	a.Begin()
	if a.State != StateAttempted {
		t.Errorf("State = %q, want %q", a.State, StateAttempted)
	}

	// Begin after completion must not regress the state.
	a.State = StateCompleted
	a.Begin()
	if a.State != StateCompleted {
		t.Errorf("State = %q, want %q", a.State, StateCompleted)
	}
}

func TestAttempt_RecordEvaluation_StateMachine(t *testing.T) {
	a := NewAttempt("csharp-basics", testExercise())

	// First failing evaluation moves the attempt forward without completing.
	completed := a.RecordEvaluation(&domain.Evaluation{Scored: false, Passed: false})
	if completed {
		t.Error("failing evaluation must not complete the attempt")
	}
	if a.State != StateAttempted {
		t.Errorf("State = %q, want %q", a.State, StateAttempted)
	}

	// First passing evaluation completes exactly once.
	completed = a.RecordEvaluation(&domain.Evaluation{Score: 100, Scored: true, Passed: true})
	if !completed {
		t.Error("first passing evaluation must complete the attempt")
	}
	if a.State != StateCompleted {
		t.Errorf("State = %q, want %q", a.State, StateCompleted)
	}

	// Later passes keep running but never re-fire completion.
	completed = a.RecordEvaluation(&domain.Evaluation{Score: 90, Scored: true, Passed: true})
	if completed {
		t.Error("completion side effects must fire only once per attempt")
	}
	if a.Evaluations != 3 {
		t.Errorf("Evaluations = %d, want 3", a.Evaluations)
	}
}

func TestAttempt_RecordEvaluation_PassOnFirstTry(t *testing.T) {
	a := NewAttempt("csharp-basics", testExercise())

	completed := a.RecordEvaluation(&domain.Evaluation{Score: 100, Scored: true, Passed: true})
	if !completed {
		t.Error("a first-try pass must complete the attempt")
	}
	if a.State != StateCompleted {
		t.Errorf("State = %q, want %q", a.State, StateCompleted)
	}
}

func TestAttempt_Reset(t *testing.T) {
	ex := testExercise()
	a := NewAttempt("csharp-basics", ex)
	id := a.ID

	a.UpdateCode("my broken attempt")
	a.RevealHint(0)
	a.RevealSolution()
	a.RecordEvaluation(&domain.Evaluation{Scored: true, Passed: true, Score: 40})

	a.Reset(ex.StarterCode)

	if a.ID != id {
		t.Error("reset must keep the attempt's identity")
	}
	if a.State != StateNotStarted {
		t.Errorf("State = %q, want %q", a.State, StateNotStarted)
	}
	if a.Code != ex.StarterCode {
		t.Errorf("Code = %q, want starter code", a.Code)
	}
	if disc := a.Disclosure(); disc.HintsRevealed != 0 || disc.SolutionRevealed {
		t.Errorf("Disclosure after reset = %+v, want empty", disc)
	}
	if a.Evaluations != 0 || a.LastEvaluation != nil || a.LastEvaluatedAt != nil {
		t.Error("reset must clear evaluation statistics")
	}
}

func TestAttempt_Clone(t *testing.T) {
	a := NewAttempt("csharp-basics", testExercise())
	a.RevealHint(1)
	a.RecordEvaluation(&domain.Evaluation{
		ValidationErrors: []domain.ValidationError{{Message: "unbalanced brace"}},
		ExecutionResult:  &domain.ExecutionResult{Success: false, Error: "did not run"},
	})

	clone := a.Clone()
	clone.RevealedHints[0] = 99
	clone.LastEvaluation.ValidationErrors[0].Message = "changed"
	clone.LastEvaluation.ExecutionResult.Error = "changed"

	if a.RevealedHints[0] != 1 {
		t.Error("clone shares the revealed hints slice")
	}
	if a.LastEvaluation.ValidationErrors[0].Message != "unbalanced brace" {
		t.Error("clone shares the validation errors slice")
	}
	if a.LastEvaluation.ExecutionResult.Error != "did not run" {
		t.Error("clone shares the execution result")
	}
}
