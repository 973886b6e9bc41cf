package stormnet

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWeight = errors.New("invalid edge weight")
	ErrInvalidRate   = errors.New("invalid rate")
	ErrNilGraph      = errors.New("nil graph")

	errMissingRate = errors.New("no base rate given")
)

// BuildError reports why a network could not be built from its inputs.
type BuildError struct {
	Vertex   string // Vertex concerned, if any
	Neighbor string // Other endpoint for edge errors
	Cause    error  // ErrInvalidWeight or ErrInvalidRate
	Detail   error  // Validation detail, may be nil
}

func (e *BuildError) Error() string {
	msg := e.Cause.Error()
	switch {
	case e.Vertex != "" && e.Neighbor != "":
		msg = fmt.Sprintf("%s %s-%s", msg, e.Vertex, e.Neighbor)
	case e.Vertex != "":
		msg = fmt.Sprintf("%s at vertex %s", msg, e.Vertex)
	}
	if e.Detail != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Detail)
	}
	return msg
}

// Unwrap exposes both the sentinel and the detail to errors.Is/As
func (e *BuildError) Unwrap() []error {
	if e.Detail == nil {
		return []error{e.Cause}
	}
	return []error{e.Cause, e.Detail}
}
