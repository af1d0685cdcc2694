// Package evaluate orchestrates exercise evaluation: static validation,
// code execution through a simulator backend, and scoring.
package evaluate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirikab-27/courselab/internal/domain"
	"github.com/kirikab-27/courselab/internal/simulator"
	"github.com/kirikab-27/courselab/internal/validator"
)

// Evaluator runs submitted code through validation and execution and
// produces a scored evaluation.
type Evaluator struct {
	validator *validator.CodeValidator
	simulator simulator.Simulator
}

// NewEvaluator creates an evaluator backed by the given execution simulator.
func NewEvaluator(v *validator.CodeValidator, sim simulator.Simulator) *Evaluator {
	return &Evaluator{
		validator: v,
		simulator: sim,
	}
}

// Request contains data for a single evaluation.
type Request struct {
	Code                string
	Language            domain.Language
	Disclosure          domain.Disclosure
	IncludeCompileCheck bool
	Timeout             time.Duration
}

// Evaluate validates the submitted code, executes it if validation finds no
// errors, and scores the run. Validation errors short-circuit: the simulator
// is never invoked and the evaluation carries only the findings. A run that
// fails or times out yields a failed, unscored evaluation rather than an
// error; only cancellation of ctx propagates as an error.
func (e *Evaluator) Evaluate(ctx context.Context, req *Request) (*domain.Evaluation, error) {
	validationErrors := e.validator.Validate(req.Code, req.Language)
	if len(validationErrors) > 0 {
		return &domain.Evaluation{
			ValidationErrors: validationErrors,
		}, nil
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = simulator.DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	result, err := e.simulator.Execute(runCtx, &simulator.Request{
		Code:                req.Code,
		Language:            req.Language,
		IncludeCompileCheck: req.IncludeCompileCheck,
		Timeout:             timeout,
	})
	if err != nil {
		if ctx.Err() == context.Canceled {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			result = &domain.ExecutionResult{
				Error:           fmt.Sprintf("execution timed out after %dms", timeout.Milliseconds()),
				ExecutionTimeMs: timeout.Milliseconds(),
				Success:         false,
			}
		} else {
			slog.Warn("execution backend unreachable", "backend", e.simulator.Name(), "error", err)
			result = &domain.ExecutionResult{
				Error:           fmt.Sprintf("execution service unavailable: %v", err),
				ExecutionTimeMs: time.Since(start).Milliseconds(),
				Success:         false,
			}
		}
	}

	eval := &domain.Evaluation{
		ValidationErrors: validationErrors,
		ExecutionResult:  result,
	}

	if !result.Success {
		return eval, nil
	}

	eval.Score = domain.ComputeScore(req.Disclosure)
	eval.Scored = true
	eval.Passed = domain.IsPassing(eval.Score)
	return eval, nil
}
