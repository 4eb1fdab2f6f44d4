package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Mode selects between real execution and validation-only dry runs.
type Mode int

const (
	ModeExecute Mode = iota
	ModeDryRun
)

// Input carries exactly one source for a batch or plan document: inline
// JSON text, a file path, pre-parsed steps, or a pre-parsed plan. Supplying
// more than one source (or none) is a caller error.
type Input struct {
	Inline string
	Path   string
	Steps  []OperationStep
	Plan   *Plan
}

func (in Input) sourceCount() int {
	count := 0
	if in.Inline != "" {
		count++
	}
	if in.Path != "" {
		count++
	}
	if in.Steps != nil {
		count++
	}
	if in.Plan != nil {
		count++
	}
	return count
}

// unit is the canonical parsed form: a bare batch keeps plan nil, a full
// plan keeps both the plan and its step list.
type unit struct {
	plan  *Plan
	steps []OperationStep
}

// Outcome is the result of a dispatch. Exactly one field is set, matching
// the mode and document kind; marshalling an Outcome emits that field's
// wire shape directly.
type Outcome struct {
	Report      *Report
	BatchDryRun *BatchDryRun
	PlanDryRun  *PlanDryRun
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	switch {
	case o.Report != nil:
		return json.Marshal(o.Report)
	case o.BatchDryRun != nil:
		return json.Marshal(o.BatchDryRun)
	case o.PlanDryRun != nil:
		return json.Marshal(o.PlanDryRun)
	}
	return nil, fmt.Errorf("empty outcome")
}

// ParseDocument resolves the dual-shape wire format once, into the canonical
// step list. A bare array and an {"operations": [...]} wrapper are the same
// batch; an object carrying version, target, preconditions, error or
// suggestion keys is a full plan.
func ParseDocument(data []byte) (*Plan, []OperationStep, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, nil, &ParseError{Err: err}
	}

	switch probe.(type) {
	case []any:
		var steps []OperationStep
		if err := json.Unmarshal(data, &steps); err != nil {
			return nil, nil, &ParseError{Err: err}
		}
		return nil, steps, nil

	case map[string]any:
		keys := probe.(map[string]any)
		if hasPlanKeys(keys) {
			var plan Plan
			if err := json.Unmarshal(data, &plan); err != nil {
				return nil, nil, &ParseError{Err: err}
			}
			return &plan, plan.Operations, nil
		}
		if _, ok := keys["operations"]; ok {
			var wrapper struct {
				Operations []OperationStep `json:"operations"`
			}
			if err := json.Unmarshal(data, &wrapper); err != nil {
				return nil, nil, &ParseError{Err: err}
			}
			return nil, wrapper.Operations, nil
		}
		return nil, nil, &ParseError{Err: fmt.Errorf("object has neither plan keys nor an operations list")}
	}

	return nil, nil, &ParseError{Err: fmt.Errorf("document must be a JSON array or object")}
}

func hasPlanKeys(keys map[string]any) bool {
	for _, key := range []string{"version", "target", "preconditions", "error", "suggestion"} {
		if _, ok := keys[key]; ok {
			return true
		}
	}
	return false
}

// Dispatcher is the single entry point for running a batch or plan from any
// source: it loads, parses, validates and delegates to the executor, and is
// the only component callers need to hold.
type Dispatcher struct {
	executor *Executor
	logger   *slog.Logger
}

func NewDispatcher(backend Backend, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		executor: NewExecutor(backend, logger),
		logger:   logger,
	}
}

// Run takes a unit through its whole lifecycle:
// received -> parsed -> (error state | validated) -> (dry-run reported | executed).
// Only the executed path ever reaches the backend. Input and validation
// problems are returned as errors; per-operation failures are recorded
// inside the report and are not errors of the call itself.
func (d *Dispatcher) Run(ctx context.Context, input Input, mode Mode) (*Outcome, error) {
	parsed, err := d.load(input)
	if err != nil {
		return nil, err
	}

	// The error-state check comes before validation and before dry-run:
	// an error plan is terminal no matter what the caller asked for.
	if parsed.plan != nil && parsed.plan.IsError() {
		d.logger.Debug("refusing error-state plan", "error", parsed.plan.Error)
		return nil, &PlanError{
			Message:    parsed.plan.Error,
			Suggestion: parsed.plan.Suggestion,
		}
	}

	if parsed.plan != nil {
		err = parsed.plan.Validate()
	} else {
		err = ValidateSteps(parsed.steps)
	}
	if err != nil {
		return nil, &InvalidPlanError{Err: err}
	}

	if mode == ModeDryRun {
		if parsed.plan != nil {
			return &Outcome{PlanDryRun: &PlanDryRun{Valid: true, Plan: parsed.plan}}, nil
		}
		return &Outcome{BatchDryRun: &BatchDryRun{Valid: true, Count: len(parsed.steps)}}, nil
	}

	report := d.executor.ExecuteBatch(ctx, parsed.steps)
	return &Outcome{Report: report}, nil
}

// load resolves the input to its canonical parsed form, reading the source
// exactly once.
func (d *Dispatcher) load(input Input) (*unit, error) {
	switch count := input.sourceCount(); {
	case count == 0:
		return nil, ErrMissingInput
	case count > 1:
		return nil, ErrAmbiguousInput
	}

	switch {
	case input.Plan != nil:
		return &unit{plan: input.Plan, steps: input.Plan.Operations}, nil
	case input.Steps != nil:
		return &unit{steps: input.Steps}, nil
	case input.Path != "":
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", input.Path, err)
		}
		plan, steps, err := ParseDocument(data)
		if err != nil {
			return nil, err
		}
		return &unit{plan: plan, steps: steps}, nil
	default:
		plan, steps, err := ParseDocument([]byte(input.Inline))
		if err != nil {
			return nil, err
		}
		return &unit{plan: plan, steps: steps}, nil
	}
}
