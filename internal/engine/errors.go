package engine

import (
	"errors"
	"fmt"
)

// Input source errors are caller mistakes, surfaced before anything is read.
var (
	ErrMissingInput   = errors.New("no batch or plan input provided")
	ErrAmbiguousInput = errors.New("more than one batch or plan input provided")
)

// PlanError carries the error/suggestion pair of a plan in the error state.
// It means the upstream translator declared the request unsatisfiable; the
// plan is well-formed but must never reach the backend.
type PlanError struct {
	Message    string
	Suggestion string
}

func (e *PlanError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// IsPlanError returns true when err is (or wraps) a PlanError.
func IsPlanError(err error) bool {
	var pe *PlanError
	return errors.As(err, &pe)
}

// ParseError wraps the decoder failure for a malformed batch or plan
// document. A document that fails to parse never produces a partial plan.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid batch or plan document: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InvalidPlanError wraps a ValidationError raised before execution.
// No operation has been attempted when this is returned.
type InvalidPlanError struct {
	Err error
}

func (e *InvalidPlanError) Error() string {
	return fmt.Sprintf("plan validation failed: %v", e.Err)
}

func (e *InvalidPlanError) Unwrap() error { return e.Err }
