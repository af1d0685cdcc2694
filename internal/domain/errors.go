package domain

import "errors"

// -----------------------------------------------------------------------------
// Domain Errors
// These errors represent domain-level failures and are used by stores and
// services to communicate domain-specific error conditions.
// -----------------------------------------------------------------------------

// Content errors
var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrInvalidCourse    = errors.New("invalid course content")
)

// Attempt errors
var (
	ErrAttemptNotFound   = errors.New("attempt not found")
	ErrAttemptSuperseded = errors.New("evaluation superseded by a newer attempt")
	ErrHintIndex         = errors.New("hint index out of range")
	ErrNoSolution        = errors.New("exercise has no reference solution")
)

// Progress errors
var (
	ErrProgressNotFound = errors.New("progress record not found")
)

// General errors
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
