package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrDuplicateNode = errors.New("duplicate node")
	ErrInvalidMember = errors.New("invalid member index")
)

// GraphError provides structured error information for graph operations.
type GraphError struct {
	Op    string // Operation that failed (e.g., "AddNode", "AddLink")
	Name  string // Node name (if applicable)
	ID    uint64 // Node ID (if applicable)
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Name, e.Cause)
	}
	if e.ID != 0 {
		return fmt.Sprintf("%s node %d: %v", e.Op, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}
