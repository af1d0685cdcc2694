package simulator

import (
	"context"
	"time"

	"github.com/kirikab-27/courselab/internal/domain"
)

// DefaultTimeout bounds a single simulated run when the request carries no
// limit of its own.
const DefaultTimeout = 30 * time.Second

// Request represents one execution request
type Request struct {
	Code                string
	Language            domain.Language
	IncludeCompileCheck bool
	Timeout             time.Duration
}

// Simulator defines the interface for execution backends. A run that times
// out resolves as a failed ExecutionResult; an error return means the backend
// itself could not be reached.
type Simulator interface {
	// Name returns the backend name
	Name() string

	// Execute runs the submitted code and returns the simulated result
	Execute(ctx context.Context, req *Request) (*domain.ExecutionResult, error)
}
