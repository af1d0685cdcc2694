package attempt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirikab-27/courselab/internal/course"
	"github.com/kirikab-27/courselab/internal/domain"
	"github.com/kirikab-27/courselab/internal/evaluate"
	"github.com/kirikab-27/courselab/internal/progress"
	"github.com/kirikab-27/courselab/internal/simulator"
)

// inflightRun tracks one outstanding evaluation for an attempt. Starting a
// newer evaluation, resetting, or closing the attempt cancels it; the
// superseded call then returns domain.ErrAttemptSuperseded and applies
// nothing.
type inflightRun struct {
	gen    uint64
	cancel context.CancelFunc
}

// Service manages exercise attempts: opening and closing them, running
// evaluations, disclosing hints and solutions, and writing the resulting
// progress. It is the only writer of exercise scores and lesson
// completions, so the write policy lives here: completion side effects
// fire on the first passing evaluation, and a recorded score is only ever
// replaced by a higher one.
type Service struct {
	store     *Store
	catalog   *course.Catalog
	evaluator *evaluate.Evaluator
	progress  progress.ProgressService

	events  *domain.EventDispatcher // Optional: attempt lifecycle events
	history History                 // Optional: durable evaluation history

	runTimeout   time.Duration
	compileCheck bool

	mu       sync.Mutex // guards attempt mutation, inflight, gen
	inflight map[string]*inflightRun
	gen      uint64
}

// NewService creates a new attempt service
func NewService(store *Store, catalog *course.Catalog, evaluator *evaluate.Evaluator, progressService progress.ProgressService) *Service {
	return &Service{
		store:      store,
		catalog:    catalog,
		evaluator:  evaluator,
		progress:   progressService,
		runTimeout: simulator.DefaultTimeout,
		inflight:   make(map[string]*inflightRun),
	}
}

// SetDispatcher sets the event dispatcher for attempt lifecycle events
func (s *Service) SetDispatcher(d *domain.EventDispatcher) {
	s.events = d
}

// SetHistory sets the durable store for evaluated attempts
func (s *Service) SetHistory(h History) {
	s.history = h
}

// SetRunTimeout overrides the per-evaluation execution timeout
func (s *Service) SetRunTimeout(d time.Duration) {
	if d > 0 {
		s.runTimeout = d
	}
}

// SetCompileCheck enables the compile pass during evaluation
func (s *Service) SetCompileCheck(enabled bool) {
	s.compileCheck = enabled
}

// Open creates a fresh attempt on an exercise. Opening the same exercise
// twice yields two independent attempts.
func (s *Service) Open(ctx context.Context, courseID, exerciseID string) (*Attempt, error) {
	ex, _, err := s.catalog.FindExercise(courseID, exerciseID)
	if err != nil {
		return nil, err
	}

	a := NewAttempt(courseID, ex)
	s.store.Save(a)

	// Make sure the course has a progress record so completion writes
	// later on have somewhere to land.
	if _, err := s.progress.Initialize(ctx, courseID); err != nil {
		slog.Warn("failed to initialize progress record", "course_id", courseID, "error", err)
	}

	if s.events != nil {
		s.events.Publish(domain.NewAttemptStartedEvent(a.ID, a.CourseID, a.LessonID, a.ExerciseID))
	}

	return a.Clone(), nil
}

// Get returns a snapshot of an open attempt
func (s *Service) Get(ctx context.Context, id string) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return a.Clone(), nil
}

// List returns snapshots of every open attempt
func (s *Service) List(ctx context.Context) ([]*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempts := s.store.List()
	snapshots := make([]*Attempt, len(attempts))
	for i, a := range attempts {
		snapshots[i] = a.Clone()
	}
	return snapshots, nil
}

// Evaluate runs the submitted code through validation and execution and
// applies the outcome to the attempt. The disclosure state is snapshotted
// at submission, so hints revealed while the code runs do not change this
// evaluation's score. If a newer evaluation starts on the same attempt
// before this one finishes, this one is cancelled, returns
// domain.ErrAttemptSuperseded, and leaves the attempt untouched.
func (s *Service) Evaluate(ctx context.Context, id, code string) (*domain.Evaluation, error) {
	s.mu.Lock()
	a, err := s.store.Get(id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	ex, _, err := s.catalog.FindExercise(a.CourseID, a.ExerciseID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if code != "" {
		a.UpdateCode(code)
	}
	a.Begin()
	s.store.Save(a)

	// Snapshot everything the pipeline needs before releasing the lock.
	disclosure := a.Disclosure()
	submitted := a.Code
	language := ex.Language

	// Register this run and cancel any previous one still in flight.
	if prev, ok := s.inflight[id]; ok {
		prev.cancel()
	}
	s.gen++
	gen := s.gen
	runCtx, cancel := context.WithCancel(ctx)
	s.inflight[id] = &inflightRun{gen: gen, cancel: cancel}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if cur, ok := s.inflight[id]; ok && cur.gen == gen {
			delete(s.inflight, id)
		}
		s.mu.Unlock()
		cancel()
	}()

	eval, err := s.evaluator.Evaluate(runCtx, &evaluate.Request{
		Code:                submitted,
		Language:            language,
		Disclosure:          disclosure,
		IncludeCompileCheck: s.compileCheck,
		Timeout:             s.runTimeout,
	})
	if err != nil {
		if ctx.Err() != nil {
			// The caller went away; propagate its cancellation.
			return nil, err
		}
		if errors.Is(err, context.Canceled) {
			return nil, domain.ErrAttemptSuperseded
		}
		return nil, fmt.Errorf("evaluate attempt: %w", err)
	}

	// Apply the outcome, unless a newer run, reset, or close took over
	// while the simulator was busy.
	s.mu.Lock()
	cur, tracked := s.inflight[id]
	if !tracked || cur.gen != gen {
		s.mu.Unlock()
		return nil, domain.ErrAttemptSuperseded
	}
	a, err = s.store.Get(id)
	if err != nil {
		s.mu.Unlock()
		return nil, domain.ErrAttemptSuperseded
	}
	completedNow := a.RecordEvaluation(eval)
	s.store.Save(a)
	courseID, lessonID, exerciseID := a.CourseID, a.LessonID, a.ExerciseID
	s.mu.Unlock()

	if s.events != nil {
		s.events.Publish(domain.NewAttemptEvaluatedEvent(id, courseID, lessonID, exerciseID, eval.Score, eval.Passed))
	}

	s.recordOutcome(ctx, courseID, lessonID, exerciseID, eval, disclosure, completedNow)

	return eval, nil
}

// recordOutcome writes the durable traces of an applied evaluation. All
// writes are best-effort: the learner already has the result, so a
// storage hiccup is logged rather than surfaced.
func (s *Service) recordOutcome(ctx context.Context, courseID, lessonID, exerciseID string, eval *domain.Evaluation, disclosure domain.Disclosure, completedNow bool) {
	markChanged := false
	if completedNow {
		changed, err := s.progress.MarkLessonComplete(ctx, courseID, lessonID)
		if err != nil {
			slog.Warn("failed to record lesson completion", "course_id", courseID, "lesson_id", lessonID, "error", err)
		} else {
			markChanged = changed
		}
	}

	if eval.Passed {
		record, err := s.progress.Record(ctx, courseID)
		if err != nil {
			slog.Warn("failed to load progress record", "course_id", courseID, "error", err)
		} else {
			if stored, ok := record.Score(exerciseID); !ok || eval.Score > stored {
				if err := s.progress.RecordExerciseScore(ctx, courseID, exerciseID, eval.Score); err != nil {
					slog.Warn("failed to record exercise score", "course_id", courseID, "exercise_id", exerciseID, "error", err)
				}
			}
			if markChanged && s.events != nil {
				s.events.Publish(domain.NewLessonCompletedEvent(courseID, lessonID, len(record.CompletedLessons)))
			}
		}
	}

	if s.history != nil {
		entry := &HistoryEntry{
			ID:               uuid.New().String(),
			CourseID:         courseID,
			LessonID:         lessonID,
			ExerciseID:       exerciseID,
			Score:            eval.Score,
			Scored:           eval.Scored,
			Passed:           eval.Passed,
			HintsRevealed:    disclosure.HintsRevealed,
			SolutionRevealed: disclosure.SolutionRevealed,
			CreatedAt:        time.Now(),
		}
		if err := s.history.Append(ctx, entry); err != nil {
			slog.Warn("failed to append attempt history", "exercise_id", exerciseID, "error", err)
		}
	}
}

// RevealHint discloses one hint by index and returns its text. Revealing
// is permanent for the attempt's lifetime and lowers the score of every
// later evaluation; revealing the same hint twice costs nothing extra.
func (s *Service) RevealHint(ctx context.Context, id string, index int) (string, error) {
	s.mu.Lock()
	a, err := s.store.Get(id)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}

	ex, _, err := s.catalog.FindExercise(a.CourseID, a.ExerciseID)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	if index < 0 || index >= len(ex.Hints) {
		s.mu.Unlock()
		return "", domain.ErrHintIndex
	}

	changed, err := a.RevealHint(index)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	s.store.Save(a)
	attemptID, exerciseID, hintsTotal := a.ID, a.ExerciseID, a.HintTotal
	s.mu.Unlock()

	if changed && s.events != nil {
		s.events.Publish(domain.NewHintRevealedEvent(attemptID, exerciseID, index, hintsTotal))
	}

	return ex.Hints[index], nil
}

// RevealSolution discloses the reference solution and returns it. The
// score penalty applies once no matter how often it is called.
func (s *Service) RevealSolution(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	a, err := s.store.Get(id)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}

	ex, _, err := s.catalog.FindExercise(a.CourseID, a.ExerciseID)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	if !ex.HasSolution() {
		s.mu.Unlock()
		return "", domain.ErrNoSolution
	}

	changed, err := a.RevealSolution()
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	s.store.Save(a)
	attemptID, exerciseID := a.ID, a.ExerciseID
	s.mu.Unlock()

	if changed && s.events != nil {
		s.events.Publish(domain.NewSolutionRevealedEvent(attemptID, exerciseID))
	}

	return ex.Solution, nil
}

// Reset returns the attempt to its just-opened state: starter code, no
// disclosure, no recorded evaluations. Progress already written for the
// exercise is untouched. An in-flight evaluation is cancelled and its
// result discarded.
func (s *Service) Reset(ctx context.Context, id string) (*Attempt, error) {
	s.mu.Lock()
	a, err := s.store.Get(id)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	ex, _, err := s.catalog.FindExercise(a.CourseID, a.ExerciseID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if run, ok := s.inflight[id]; ok {
		run.cancel()
		delete(s.inflight, id)
	}

	a.Reset(ex.StarterCode)
	s.store.Save(a)
	snapshot := a.Clone()
	s.mu.Unlock()

	return snapshot, nil
}

// Close discards the attempt and credits the time it was open to the
// course's progress record. An in-flight evaluation is cancelled.
func (s *Service) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	a, err := s.store.Get(id)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	if run, ok := s.inflight[id]; ok {
		run.cancel()
		delete(s.inflight, id)
	}

	if err := s.store.Delete(id); err != nil {
		s.mu.Unlock()
		return err
	}
	courseID := a.CourseID
	minutes := int(time.Since(a.CreatedAt).Minutes())
	s.mu.Unlock()

	if minutes > 0 {
		if err := s.progress.AddTimeSpent(ctx, courseID, minutes); err != nil {
			slog.Warn("failed to record time spent", "course_id", courseID, "error", err)
		}
	}

	return nil
}
