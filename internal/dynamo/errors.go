package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for graph operations.
var (
	// ErrVertexNotFound indicates a handle outside the vertex collection.
	ErrVertexNotFound = errors.New("dynamo: vertex not found")

	// ErrSelfLoop indicates an edge whose endpoints are the same vertex.
	ErrSelfLoop = errors.New("dynamo: edge endpoints must differ")

	// ErrUnstable indicates the simulation produced NaN or Inf values.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrUnknownParam indicates a parameter name Params.Set does not know.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")
)

// SimError wraps an error with the step at which it was detected.
type SimError struct {
	Step    int
	Message string
	Wrapped error
}

func (e *SimError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
	}
	return fmt.Sprintf("step %d: %s: %v", e.Step, e.Message, e.Wrapped)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
