package bayes

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for model construction and lookup
var (
	ErrInvalidVariable         = errors.New("invalid variable")
	ErrDuplicateVariable       = errors.New("duplicate variable")
	ErrUnknownVariable         = errors.New("unknown variable")
	ErrUnknownState            = errors.New("unknown state")
	ErrUnknownParentAssignment = errors.New("unknown parent assignment")
	ErrMalformedCPT            = errors.New("malformed CPT")
	ErrCyclicDependency        = errors.New("cyclic dependency")
)

// ModelError provides structured error information for model operations.
type ModelError struct {
	Op       string // Operation that failed (e.g., "Lookup", "NewTable")
	Variable string // Variable the operation concerned
	State    string // State label (for state lookups)
	Context  string // Additional context
	Cause    error  // Underlying error
}

// Error implements the error interface.
func (e *ModelError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Variable != "" {
		fmt.Fprintf(&b, " %s", e.Variable)
	}
	if e.State != "" {
		fmt.Fprintf(&b, " (state %q)", e.State)
	}
	if e.Context != "" {
		fmt.Fprintf(&b, " (%s)", e.Context)
	}
	fmt.Fprintf(&b, ": %v", e.Cause)
	return b.String()
}

// Unwrap returns the underlying cause for error chain support.
func (e *ModelError) Unwrap() error {
	return e.Cause
}

// ErrorBuilder provides a fluent interface for building ModelErrors.
type ErrorBuilder struct {
	err ModelError
}

// NewError creates a new error builder with the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: ModelError{Op: op}}
}

// Variable sets the variable name.
func (b *ErrorBuilder) Variable(name string) *ErrorBuilder {
	b.err.Variable = name
	return b
}

// State sets the offending state label.
func (b *ErrorBuilder) State(state string) *ErrorBuilder {
	b.err.State = state
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(format string, args ...any) *ErrorBuilder {
	b.err.Context = fmt.Sprintf(format, args...)
	return b
}

// Cause sets the underlying error cause.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Err returns the constructed error.
func (b *ErrorBuilder) Err() error {
	e := b.err
	return &e
}
