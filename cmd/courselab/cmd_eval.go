package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kirikab-27/courselab/internal/config"
	"github.com/kirikab-27/courselab/internal/course"
	"github.com/kirikab-27/courselab/internal/domain"
	"github.com/kirikab-27/courselab/internal/evaluate"
	"github.com/kirikab-27/courselab/internal/simulator"
	"github.com/kirikab-27/courselab/internal/validator"
)

// cmdEval evaluates a solution file against an exercise without the daemon.
// It runs the same pipeline the daemon uses, but with the built-in
// simulator and nothing revealed, and records no progress.
func cmdEval(args []string) error {
	if len(args) < 2 {
		fmt.Println(`Usage:
  courselab eval <course-id>/<exercise-id> <file>

Evaluates a solution file offline: static validation, a run on the
built-in simulator, and the score a clean attempt would earn. No
progress is recorded.

Example:
  courselab eval csharp-basics/ex-hello main.cs`)
		return nil
	}

	courseID, exerciseID, ok := strings.Cut(args[0], "/")
	if !ok || courseID == "" || exerciseID == "" {
		return fmt.Errorf("target must be in format: course-id/exercise-id (e.g., csharp-basics/ex-hello)")
	}

	code, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read solution file: %w", err)
	}

	cfg, err := config.LoadLocalConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	coursesDir, err := cfg.CoursesDir()
	if err != nil {
		return err
	}

	catalog := course.NewCatalog(course.NewLoader(coursesDir))
	if err := catalog.Load(); err != nil {
		return fmt.Errorf("load courses: %w", err)
	}

	ex, _, err := catalog.FindExercise(courseID, exerciseID)
	if err != nil {
		return err
	}

	evaluator := evaluate.NewEvaluator(validator.NewCodeValidator(), simulator.NewLocalSimulator())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	eval, err := evaluator.Evaluate(ctx, &evaluate.Request{
		Code:                string(code),
		Language:            ex.Language,
		IncludeCompileCheck: cfg.Simulator.CompileCheck,
		Timeout:             time.Duration(cfg.Simulator.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	fmt.Printf("Exercise: %s (%s)\n\n", ex.Title, ex.ID)

	if len(eval.ValidationErrors) > 0 {
		fmt.Println("✗ Validation failed")
		for _, ve := range eval.ValidationErrors {
			if ve.Line > 0 {
				fmt.Printf("  line %d: %s\n", ve.Line, ve.Message)
			} else {
				fmt.Printf("  %s\n", ve.Message)
			}
		}
		return nil
	}

	if eval.ExecutionResult != nil {
		if eval.ExecutionResult.Output != "" {
			fmt.Println("Output:")
			for _, line := range strings.Split(strings.TrimRight(eval.ExecutionResult.Output, "\n"), "\n") {
				fmt.Printf("  %s\n", line)
			}
			fmt.Println()
		}
		if !eval.ExecutionResult.Success {
			fmt.Println("✗ Run failed")
			if eval.ExecutionResult.Error != "" {
				fmt.Printf("  %s\n", eval.ExecutionResult.Error)
			}
			return nil
		}
		fmt.Printf("Run: ✓ (%dms)\n", eval.ExecutionResult.ExecutionTimeMs)
	}

	fmt.Printf("Score: %d/%d", eval.Score, domain.MaxScore)
	if eval.Passed {
		fmt.Println("  ✓ passed")
	} else {
		fmt.Printf("  ✗ below pass threshold (%d)\n", domain.PassThreshold)
	}

	return nil
}
