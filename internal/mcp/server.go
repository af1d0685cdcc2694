package mcp

import (
	"context"
	"fmt"

	mcp "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/server"

	"github.com/kirikab-27/courselab/internal/attempt"
	"github.com/kirikab-27/courselab/internal/course"
	"github.com/kirikab-27/courselab/internal/domain"
	"github.com/kirikab-27/courselab/internal/progress"
)

// Server wraps the MCP server with courselab functionality. It exposes the
// course catalog, the attempt lifecycle and progress tracking as tools for
// the platform's AI study helper.
type Server struct {
	mcpServer *server.Server
	catalog   *course.Catalog
	attempts  attempt.AttemptService
	progress  progress.ProgressService
}

// Config contains configuration for the MCP server
type Config struct {
	Catalog  *course.Catalog
	Attempts attempt.AttemptService
	Progress progress.ProgressService
	Version  string
}

// NewServer creates a new MCP server for courselab
func NewServer(cfg Config) *Server {
	s := &Server{
		catalog:  cfg.Catalog,
		attempts: cfg.Attempts,
		progress: cfg.Progress,
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s.mcpServer = server.New(server.Info{
		Name:    "courselab",
		Version: version,
	}, server.WithInstructions(`
Courselab teaches programming languages through short lessons and scored
exercises. Lessons belong to ordered modules; each exercise starts from
starter code and is evaluated offline.

Available tools:
- courselab_courses: List installed courses with completion
- courselab_lesson: Read one lesson with its exercises and neighbors
- courselab_next: Recommend the next lesson to study in a course
- courselab_open: Open an attempt on an exercise
- courselab_evaluate: Evaluate code against an open attempt
- courselab_hint: Reveal one hint on an open attempt
- courselab_solution: Reveal the reference solution
- courselab_progress: Report progress for one course or across all courses

Scoring: a clean pass earns 100 points. Every revealed hint costs 10
points and a revealed solution costs 50; a score must exceed 70 to pass.
Recorded scores only ever increase, so retrying is always safe.
`))

	s.registerTools()

	return s
}

// registerTools registers all courselab MCP tools
func (s *Server) registerTools() {
	s.mcpServer.Tool("courselab_courses").
		Description("List installed courses with lesson counts and completion.").
		Handler(s.handleCourses)

	s.mcpServer.Tool("courselab_lesson").
		Description("Read one lesson: content, exercises and neighboring lessons.").
		Handler(s.handleLesson)

	s.mcpServer.Tool("courselab_next").
		Description("Recommend the next lesson to study in a course.").
		Handler(s.handleNext)

	s.mcpServer.Tool("courselab_open").
		Description("Open an attempt on an exercise, seeded with its starter code.").
		Handler(s.handleOpen)

	s.mcpServer.Tool("courselab_evaluate").
		Description("Evaluate code against an open attempt and report the score.").
		Handler(s.handleEvaluate)

	s.mcpServer.Tool("courselab_hint").
		Description("Reveal one hint on an open attempt. Costs score on later evaluations.").
		Handler(s.handleHint)

	s.mcpServer.Tool("courselab_solution").
		Description("Reveal the reference solution. Costs score on later evaluations.").
		Handler(s.handleSolution)

	s.mcpServer.Tool("courselab_progress").
		Description("Report progress for one course, or across all courses when no course is given.").
		Handler(s.handleProgress)
}

// Input/Output types for tools

type CoursesInput struct{}

type CourseSummary struct {
	ID                   string  `json:"id"`
	Title                string  `json:"title"`
	Language             string  `json:"language"`
	Lessons              int     `json:"lessons"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

type CoursesOutput struct {
	Courses []CourseSummary `json:"courses"`
}

type LessonInput struct {
	CourseID string `json:"course_id" jsonschema:"description=Course ID from courselab_courses"`
	LessonID string `json:"lesson_id" jsonschema:"description=Lesson ID within the course"`
}

type LessonRef struct {
	ID       string `json:"id"`
	ModuleID string `json:"module_id"`
	Title    string `json:"title"`
}

type ExerciseSummary struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Difficulty       string `json:"difficulty"`
	Description      string `json:"description,omitempty"`
	Hints            int    `json:"hints"`
	HasSolution      bool   `json:"has_solution"`
	EstimatedMinutes int    `json:"estimated_minutes,omitempty"`
}

type LessonOutput struct {
	CourseID  string            `json:"course_id"`
	LessonID  string            `json:"lesson_id"`
	ModuleID  string            `json:"module_id"`
	Title     string            `json:"title"`
	Content   string            `json:"content,omitempty"`
	Exercises []ExerciseSummary `json:"exercises,omitempty"`
	Next      *LessonRef        `json:"next,omitempty"`
	Previous  *LessonRef        `json:"previous,omitempty"`
}

type NextInput struct {
	CourseID string `json:"course_id" jsonschema:"description=Course ID from courselab_courses"`
}

type NextOutput struct {
	CourseID             string     `json:"course_id"`
	Lesson               *LessonRef `json:"lesson,omitempty"`
	CompletionPercentage float64    `json:"completion_percentage"`
	Message              string     `json:"message"`
}

type OpenInput struct {
	CourseID   string `json:"course_id" jsonschema:"description=Course ID from courselab_courses"`
	ExerciseID string `json:"exercise_id" jsonschema:"description=Exercise ID from courselab_lesson"`
}

type OpenOutput struct {
	AttemptID   string `json:"attempt_id"`
	ExerciseID  string `json:"exercise_id"`
	LessonID    string `json:"lesson_id"`
	StarterCode string `json:"starter_code"`
	Hints       int    `json:"hints"`
	HasSolution bool   `json:"has_solution"`
	Message     string `json:"message"`
}

type EvaluateInput struct {
	AttemptID string `json:"attempt_id" jsonschema:"description=Attempt ID from courselab_open"`
	Code      string `json:"code,omitempty" jsonschema:"description=Code to evaluate; omit to evaluate the attempt's current code"`
}

type EvaluateOutput struct {
	Passed           bool     `json:"passed"`
	Scored           bool     `json:"scored"`
	Score            int      `json:"score"`
	Output           string   `json:"output,omitempty"`
	RuntimeError     string   `json:"runtime_error,omitempty"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
	Message          string   `json:"message"`
}

type HintInput struct {
	AttemptID string `json:"attempt_id" jsonschema:"description=Attempt ID from courselab_open"`
	Index     int    `json:"index" jsonschema:"description=Zero-based hint index"`
}

type HintOutput struct {
	Index   int    `json:"index"`
	Hint    string `json:"hint"`
	Message string `json:"message"`
}

type SolutionInput struct {
	AttemptID string `json:"attempt_id" jsonschema:"description=Attempt ID from courselab_open"`
}

type SolutionOutput struct {
	Solution string `json:"solution"`
	Message  string `json:"message"`
}

type ProgressInput struct {
	CourseID string `json:"course_id,omitempty" jsonschema:"description=Course ID; omit for a summary across all courses"`
}

type ProgressOutput struct {
	CourseID             string  `json:"course_id,omitempty"`
	TrackedCourses       int     `json:"tracked_courses,omitempty"`
	CompletedLessons     int     `json:"completed_lessons"`
	TotalLessons         int     `json:"total_lessons,omitempty"`
	CompletionPercentage float64 `json:"completion_percentage"`
	ExercisesScored      int     `json:"exercises_scored"`
	ExercisesPassed      int     `json:"exercises_passed,omitempty"`
	AverageScore         float64 `json:"average_score"`
	TimeSpentMinutes     int     `json:"time_spent_minutes"`
}

// Tool handlers

func (s *Server) handleCourses(ctx context.Context, input CoursesInput) (CoursesOutput, error) {
	records, err := s.progress.List(ctx)
	if err != nil {
		return CoursesOutput{}, fmt.Errorf("load progress: %w", err)
	}
	byCourse := make(map[string]*domain.ProgressRecord, len(records))
	for _, record := range records {
		byCourse[record.CourseID] = record
	}

	courses := s.catalog.List()
	out := CoursesOutput{Courses: make([]CourseSummary, 0, len(courses))}
	for _, c := range courses {
		out.Courses = append(out.Courses, CourseSummary{
			ID:                   c.ID,
			Title:                c.Title,
			Language:             string(c.Language),
			Lessons:              c.LessonCount(),
			CompletionPercentage: course.CompletionPercentage(c, byCourse[c.ID]),
		})
	}
	return out, nil
}

func (s *Server) handleLesson(ctx context.Context, input LessonInput) (LessonOutput, error) {
	c, err := s.catalog.Get(input.CourseID)
	if err != nil {
		return LessonOutput{}, fmt.Errorf("course %q: %w", input.CourseID, err)
	}
	lesson := c.FindLesson(input.LessonID)
	if lesson == nil {
		return LessonOutput{}, fmt.Errorf("lesson %q: %w", input.LessonID, domain.ErrLessonNotFound)
	}

	out := LessonOutput{
		CourseID: c.ID,
		LessonID: lesson.ID,
		ModuleID: lesson.ModuleID,
		Title:    lesson.Title,
		Content:  lesson.Content,
	}
	for i := range lesson.Exercises {
		ex := &lesson.Exercises[i]
		out.Exercises = append(out.Exercises, ExerciseSummary{
			ID:               ex.ID,
			Title:            ex.Title,
			Difficulty:       string(ex.Difficulty),
			Description:      ex.Description,
			Hints:            ex.HintCount(),
			HasSolution:      ex.Solution != "",
			EstimatedMinutes: ex.EstimatedMinutes,
		})
	}
	if next := course.NextLesson(c, lesson.ID); next != nil {
		out.Next = &LessonRef{ID: next.ID, ModuleID: next.ModuleID, Title: next.Title}
	}
	if previous := course.PreviousLesson(c, lesson.ID); previous != nil {
		out.Previous = &LessonRef{ID: previous.ID, ModuleID: previous.ModuleID, Title: previous.Title}
	}
	return out, nil
}

func (s *Server) handleNext(ctx context.Context, input NextInput) (NextOutput, error) {
	c, err := s.catalog.Get(input.CourseID)
	if err != nil {
		return NextOutput{}, fmt.Errorf("course %q: %w", input.CourseID, err)
	}
	record, err := s.progress.Record(ctx, input.CourseID)
	if err != nil {
		return NextOutput{}, fmt.Errorf("load progress: %w", err)
	}

	out := NextOutput{
		CourseID:             c.ID,
		CompletionPercentage: course.CompletionPercentage(c, record),
	}
	lesson := course.FirstIncompleteLesson(c, record)
	if lesson == nil {
		out.Message = fmt.Sprintf("Every lesson in %q is complete.", c.Title)
		return out, nil
	}
	out.Lesson = &LessonRef{ID: lesson.ID, ModuleID: lesson.ModuleID, Title: lesson.Title}
	out.Message = fmt.Sprintf("Continue with %q. Read it via courselab_lesson.", lesson.Title)
	return out, nil
}

func (s *Server) handleOpen(ctx context.Context, input OpenInput) (OpenOutput, error) {
	a, err := s.attempts.Open(ctx, input.CourseID, input.ExerciseID)
	if err != nil {
		return OpenOutput{}, fmt.Errorf("open attempt: %w", err)
	}

	return OpenOutput{
		AttemptID:   a.ID,
		ExerciseID:  a.ExerciseID,
		LessonID:    a.LessonID,
		StarterCode: a.Code,
		Hints:       a.HintTotal,
		HasSolution: a.HasSolution,
		Message:     fmt.Sprintf("Attempt opened with %d hints available. Submit code via courselab_evaluate.", a.HintTotal),
	}, nil
}

func (s *Server) handleEvaluate(ctx context.Context, input EvaluateInput) (EvaluateOutput, error) {
	eval, err := s.attempts.Evaluate(ctx, input.AttemptID, input.Code)
	if err != nil {
		return EvaluateOutput{}, fmt.Errorf("evaluate: %w", err)
	}

	out := EvaluateOutput{
		Passed: eval.Passed,
		Scored: eval.Scored,
		Score:  eval.Score,
	}
	for _, ve := range eval.ValidationErrors {
		if ve.Line > 0 {
			out.ValidationErrors = append(out.ValidationErrors, fmt.Sprintf("line %d: %s", ve.Line, ve.Message))
		} else {
			out.ValidationErrors = append(out.ValidationErrors, ve.Message)
		}
	}
	if eval.ExecutionResult != nil {
		out.Output = eval.ExecutionResult.Output
		out.RuntimeError = eval.ExecutionResult.Error
	}

	switch {
	case len(out.ValidationErrors) > 0:
		out.Message = "Validation failed. Fix the reported issues and evaluate again."
	case eval.ExecutionResult != nil && !eval.ExecutionResult.Success:
		out.Message = "The run failed. Inspect the error and evaluate again."
	case eval.Passed:
		out.Message = fmt.Sprintf("Passed with score %d.", eval.Score)
	default:
		out.Message = fmt.Sprintf("The run succeeded but score %d does not clear the pass threshold of %d.", eval.Score, domain.PassThreshold)
	}
	return out, nil
}

func (s *Server) handleHint(ctx context.Context, input HintInput) (HintOutput, error) {
	hint, err := s.attempts.RevealHint(ctx, input.AttemptID, input.Index)
	if err != nil {
		return HintOutput{}, fmt.Errorf("reveal hint: %w", err)
	}

	return HintOutput{
		Index:   input.Index,
		Hint:    hint,
		Message: fmt.Sprintf("Hint revealed. Each revealed hint costs %d points on later evaluations.", domain.HintPenalty),
	}, nil
}

func (s *Server) handleSolution(ctx context.Context, input SolutionInput) (SolutionOutput, error) {
	solution, err := s.attempts.RevealSolution(ctx, input.AttemptID)
	if err != nil {
		return SolutionOutput{}, fmt.Errorf("reveal solution: %w", err)
	}

	return SolutionOutput{
		Solution: solution,
		Message:  fmt.Sprintf("Solution revealed. Later evaluations on this attempt are capped at %d points.", domain.MaxScore-domain.SolutionPenalty),
	}, nil
}

func (s *Server) handleProgress(ctx context.Context, input ProgressInput) (ProgressOutput, error) {
	if input.CourseID == "" {
		overview, err := s.progress.Overview(ctx)
		if err != nil {
			return ProgressOutput{}, fmt.Errorf("build overview: %w", err)
		}
		return ProgressOutput{
			TrackedCourses:   overview.TrackedCourses,
			CompletedLessons: overview.CompletedLessons,
			ExercisesScored:  overview.ExercisesScored,
			ExercisesPassed:  overview.ExercisesPassed,
			AverageScore:     overview.AverageScore,
			TimeSpentMinutes: overview.TimeSpentMinutes,
		}, nil
	}

	c, err := s.catalog.Get(input.CourseID)
	if err != nil {
		return ProgressOutput{}, fmt.Errorf("course %q: %w", input.CourseID, err)
	}
	record, err := s.progress.Record(ctx, input.CourseID)
	if err != nil {
		return ProgressOutput{}, fmt.Errorf("load progress: %w", err)
	}

	out := ProgressOutput{
		CourseID:             c.ID,
		CompletedLessons:     len(record.CompletedLessons),
		TotalLessons:         c.LessonCount(),
		CompletionPercentage: course.CompletionPercentage(c, record),
		ExercisesScored:      len(record.ExerciseScores),
		TimeSpentMinutes:     record.TimeSpentMinutes,
	}
	var sum int
	for _, score := range record.ExerciseScores {
		sum += score
		if domain.IsPassing(score) {
			out.ExercisesPassed++
		}
	}
	if len(record.ExerciseScores) > 0 {
		out.AverageScore = float64(sum) / float64(len(record.ExerciseScores))
	}
	return out, nil
}

// ServeStdio starts the MCP server on stdio (for editor integration)
func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

// ServeHTTP starts the MCP server on HTTP (alternative transport)
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr)
}

// GetMCPServer returns the underlying MCP server (for testing)
func (s *Server) GetMCPServer() *server.Server {
	return s.mcpServer
}
