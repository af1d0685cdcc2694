package daemon

import (
	"context"
	"errors"
	"testing"

	"github.com/kirikab-27/courselab/internal/attempt"
	"github.com/kirikab-27/courselab/internal/config"
	"github.com/kirikab-27/courselab/internal/course"
	"github.com/kirikab-27/courselab/internal/domain"
	"github.com/kirikab-27/courselab/internal/progress"
)

var errNotImplemented = errors.New("mock: not implemented")

// mockAttemptService implements attempt.AttemptService for testing
type mockAttemptService struct {
	openFn           func(ctx context.Context, courseID, exerciseID string) (*attempt.Attempt, error)
	getFn            func(ctx context.Context, id string) (*attempt.Attempt, error)
	listFn           func(ctx context.Context) ([]*attempt.Attempt, error)
	evaluateFn       func(ctx context.Context, id, code string) (*domain.Evaluation, error)
	revealHintFn     func(ctx context.Context, id string, index int) (string, error)
	revealSolutionFn func(ctx context.Context, id string) (string, error)
	resetFn          func(ctx context.Context, id string) (*attempt.Attempt, error)
	closeFn          func(ctx context.Context, id string) error
}

func (m *mockAttemptService) Open(ctx context.Context, courseID, exerciseID string) (*attempt.Attempt, error) {
	if m.openFn != nil {
		return m.openFn(ctx, courseID, exerciseID)
	}
	return nil, errNotImplemented
}

func (m *mockAttemptService) Get(ctx context.Context, id string) (*attempt.Attempt, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockAttemptService) List(ctx context.Context) ([]*attempt.Attempt, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockAttemptService) Evaluate(ctx context.Context, id, code string) (*domain.Evaluation, error) {
	if m.evaluateFn != nil {
		return m.evaluateFn(ctx, id, code)
	}
	return nil, errNotImplemented
}

func (m *mockAttemptService) RevealHint(ctx context.Context, id string, index int) (string, error) {
	if m.revealHintFn != nil {
		return m.revealHintFn(ctx, id, index)
	}
	return "", errNotImplemented
}

func (m *mockAttemptService) RevealSolution(ctx context.Context, id string) (string, error) {
	if m.revealSolutionFn != nil {
		return m.revealSolutionFn(ctx, id)
	}
	return "", errNotImplemented
}

func (m *mockAttemptService) Reset(ctx context.Context, id string) (*attempt.Attempt, error) {
	if m.resetFn != nil {
		return m.resetFn(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockAttemptService) Close(ctx context.Context, id string) error {
	if m.closeFn != nil {
		return m.closeFn(ctx, id)
	}
	return errNotImplemented
}

var _ attempt.AttemptService = (*mockAttemptService)(nil)

// mockProgressService implements progress.ProgressService for testing
type mockProgressService struct {
	initializeFn         func(ctx context.Context, courseID string) (*domain.ProgressRecord, error)
	recordFn             func(ctx context.Context, courseID string) (*domain.ProgressRecord, error)
	markLessonCompleteFn func(ctx context.Context, courseID, lessonID string) (bool, error)
	recordScoreFn        func(ctx context.Context, courseID, exerciseID string, score int) error
	addTimeSpentFn       func(ctx context.Context, courseID string, minutes int) error
	listFn               func(ctx context.Context) ([]*domain.ProgressRecord, error)
	overviewFn           func(ctx context.Context) (*progress.Overview, error)
	resetFn              func(ctx context.Context, courseID string) error
}

func (m *mockProgressService) Initialize(ctx context.Context, courseID string) (*domain.ProgressRecord, error) {
	if m.initializeFn != nil {
		return m.initializeFn(ctx, courseID)
	}
	return nil, errNotImplemented
}

func (m *mockProgressService) Record(ctx context.Context, courseID string) (*domain.ProgressRecord, error) {
	if m.recordFn != nil {
		return m.recordFn(ctx, courseID)
	}
	return nil, errNotImplemented
}

func (m *mockProgressService) MarkLessonComplete(ctx context.Context, courseID, lessonID string) (bool, error) {
	if m.markLessonCompleteFn != nil {
		return m.markLessonCompleteFn(ctx, courseID, lessonID)
	}
	return false, errNotImplemented
}

func (m *mockProgressService) RecordExerciseScore(ctx context.Context, courseID, exerciseID string, score int) error {
	if m.recordScoreFn != nil {
		return m.recordScoreFn(ctx, courseID, exerciseID, score)
	}
	return errNotImplemented
}

func (m *mockProgressService) AddTimeSpent(ctx context.Context, courseID string, minutes int) error {
	if m.addTimeSpentFn != nil {
		return m.addTimeSpentFn(ctx, courseID, minutes)
	}
	return errNotImplemented
}

func (m *mockProgressService) List(ctx context.Context) ([]*domain.ProgressRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockProgressService) Overview(ctx context.Context) (*progress.Overview, error) {
	if m.overviewFn != nil {
		return m.overviewFn(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockProgressService) Reset(ctx context.Context, courseID string) error {
	if m.resetFn != nil {
		return m.resetFn(ctx, courseID)
	}
	return errNotImplemented
}

var _ progress.ProgressService = (*mockProgressService)(nil)

// mockHistory implements attempt.History for testing
type mockHistory struct {
	appendFn         func(ctx context.Context, entry *attempt.HistoryEntry) error
	listByExerciseFn func(ctx context.Context, courseID, exerciseID string, limit int) ([]*attempt.HistoryEntry, error)
}

func (m *mockHistory) Append(ctx context.Context, entry *attempt.HistoryEntry) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, entry)
	}
	return errNotImplemented
}

func (m *mockHistory) ListByExercise(ctx context.Context, courseID, exerciseID string, limit int) ([]*attempt.HistoryEntry, error) {
	if m.listByExerciseFn != nil {
		return m.listByExerciseFn(ctx, courseID, exerciseID, limit)
	}
	return nil, errNotImplemented
}

var _ attempt.History = (*mockHistory)(nil)

// serverWithMocks holds a server configured with mock dependencies
type serverWithMocks struct {
	server   *Server
	attempts *mockAttemptService
	progress *mockProgressService
	history  *mockHistory
}

// newServerWithMocks creates a Server whose services are all mocks, backed
// by a real catalog loaded from the shared course fixture. This enables
// isolated testing of handler error paths that real services rarely produce.
func newServerWithMocks(t *testing.T) *serverWithMocks {
	t.Helper()

	tmpDir := t.TempDir()
	writeCourseFixture(t, tmpDir)

	catalog := course.NewCatalog(course.NewLoader(tmpDir))
	if err := catalog.Load(); err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	attempts := &mockAttemptService{}
	progressMock := &mockProgressService{}
	history := &mockHistory{}

	srv := NewServer(ServerConfig{
		Config:   config.DefaultLocalConfig(),
		Catalog:  catalog,
		Attempts: attempts,
		Progress: progressMock,
		History:  history,
	})

	return &serverWithMocks{
		server:   srv,
		attempts: attempts,
		progress: progressMock,
		history:  history,
	}
}
