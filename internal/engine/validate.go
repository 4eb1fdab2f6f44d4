package engine

import (
	"fmt"
	"strings"
)

// ValidationError reports a structurally invalid batch or plan.
type ValidationError struct {
	Index int
	Op    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("operation %d has an empty name", e.Index)
}

// ValidateSteps checks that every step names an operation. Parameter shapes
// are deliberately not checked here - each operation owns its own parameter
// contract and reports violations at execution time.
func ValidateSteps(steps []OperationStep) error {
	for index, step := range steps {
		if strings.TrimSpace(step.Op) == "" {
			return &ValidationError{Index: index, Op: step.Op}
		}
	}
	return nil
}

// Validate checks the plan for structural problems. A plan in the error
// state is well-formed by definition - callers must check IsError separately
// before attempting execution. Validation is a pure function of the plan
// value and never calls the backend.
func (p *Plan) Validate() error {
	if p.IsError() {
		return nil
	}
	return ValidateSteps(p.Operations)
}
