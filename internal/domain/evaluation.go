package domain

// Scoring constants for exercise evaluation.
const (
	// MaxScore is the score of a clean pass with nothing revealed.
	MaxScore = 100
	// HintPenalty is subtracted once per revealed hint.
	HintPenalty = 10
	// SolutionPenalty is subtracted when the reference solution was shown.
	SolutionPenalty = 50
	// PassThreshold must be strictly exceeded for an attempt to pass.
	PassThreshold = 70
)

// ValidationError describes one static check failure in submitted code.
// Line is 1-based; 0 means the check could not attribute a line.
type ValidationError struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ExecutionResult is the outcome of one simulated run. It exists only for
// the duration of the attempt and is never persisted.
type ExecutionResult struct {
	Output          string  `json:"output"`
	Error           string  `json:"error,omitempty"`
	ExecutionTimeMs int64   `json:"execution_time_ms"`
	Success         bool    `json:"success"`
	MemoryUsageMB   float64 `json:"memory_usage_mb,omitempty"`
}

// Disclosure is a snapshot of hint and solution exposure for one attempt,
// taken at the moment an evaluation starts.
type Disclosure struct {
	HintsRevealed    int  `json:"hints_revealed"`
	SolutionRevealed bool `json:"solution_revealed"`
}

// Evaluation is the combined outcome of one attempt: static validation,
// simulated execution, and scoring. Score is meaningful only when Scored
// is true, which requires clean validation and a successful run.
type Evaluation struct {
	ValidationErrors []ValidationError `json:"validation_errors,omitempty"`
	ExecutionResult  *ExecutionResult  `json:"execution_result,omitempty"`
	Score            int               `json:"score"`
	Scored           bool              `json:"scored"`
	Passed           bool              `json:"passed"`
}

// ComputeScore applies disclosure penalties to the maximum score: each
// revealed hint costs HintPenalty and a revealed solution costs
// SolutionPenalty. The result is clamped to [0, MaxScore].
func ComputeScore(d Disclosure) int {
	score := MaxScore - HintPenalty*d.HintsRevealed
	if d.SolutionRevealed {
		score -= SolutionPenalty
	}
	return ClampScore(score)
}

// ClampScore bounds a score to [0, MaxScore].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// IsPassing reports whether a score clears the pass threshold. The
// comparison is strict: a score equal to PassThreshold fails.
func IsPassing(score int) bool {
	return score > PassThreshold
}
