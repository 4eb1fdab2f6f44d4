package engine

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Backend performs a single named operation. Implementations are expected to
// be stateful and slow (subprocess or network round-trip); the engine treats
// every call as opaque and synchronous.
type Backend interface {
	Execute(ctx context.Context, name string, params json.RawMessage) (json.RawMessage, error)
}

// Status of one executed operation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the outcome of one operation step, positionally indexed into
// the submitted operations list.
type Result struct {
	Index  int             `json:"index"`
	Op     string          `json:"op"`
	Status Status          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Report aggregates the per-operation results of a batch or plan run.
// Every attempted step yields exactly one result, in submission order.
type Report struct {
	Executed bool     `json:"executed"`
	Results  []Result `json:"results"`
}

// Successful counts the operations that completed without error. Whether a
// partial success counts as an overall failure is presentation-layer policy;
// the engine only reports the numbers.
func (r *Report) Successful() int {
	count := 0
	for _, result := range r.Results {
		if result.Status == StatusSuccess {
			count++
		}
	}
	return count
}

// Failed counts the operations the backend rejected.
func (r *Report) Failed() int {
	return len(r.Results) - r.Successful()
}

// BatchDryRun is the report of a validated batch that was never executed.
type BatchDryRun struct {
	Valid bool `json:"valid"`
	Count int  `json:"count"`
}

// PlanDryRun is the report of a validated plan that was never executed.
type PlanDryRun struct {
	Valid bool  `json:"valid"`
	Plan  *Plan `json:"plan"`
}

// Executor runs operation steps against a backend, strictly in order.
type Executor struct {
	backend Backend
	logger  *slog.Logger
}

func NewExecutor(backend Backend, logger *slog.Logger) *Executor {
	return &Executor{
		backend: backend,
		logger:  logger,
	}
}

// ExecuteBatch attempts every step in listed order and records one result
// per attempted step. A failing operation never halts the batch: operations
// are assumed independent unless a precondition says otherwise, and callers
// need the full per-step picture, not the first failure.
//
// Steps run one at a time because later operations may depend on side
// effects of earlier ones (a created track, an imported clip) and the engine
// has no dependency graph to reason about safe parallelism.
//
// If ctx is cancelled mid-batch, no further backend calls are issued and the
// results collected so far are returned - callers want partial reports, not
// an aborted run.
func (e *Executor) ExecuteBatch(ctx context.Context, steps []OperationStep) *Report {
	report := &Report{
		Executed: true,
		Results:  make([]Result, 0, len(steps)),
	}

	for index, step := range steps {
		if err := ctx.Err(); err != nil {
			e.logger.Warn("batch cancelled, returning partial report",
				"attempted", len(report.Results),
				"total", len(steps))
			break
		}

		step.normalize()

		e.logger.Debug("executing operation",
			"index", index,
			"op", step.Op)

		value, err := e.backend.Execute(ctx, step.Op, step.Params)
		if err != nil {
			e.logger.Debug("operation failed",
				"index", index,
				"op", step.Op,
				"error", err)
			report.Results = append(report.Results, Result{
				Index:  index,
				Op:     step.Op,
				Status: StatusError,
				Error:  err.Error(),
			})
			continue
		}

		if len(value) == 0 {
			value = json.RawMessage("null")
		}
		report.Results = append(report.Results, Result{
			Index:  index,
			Op:     step.Op,
			Status: StatusSuccess,
			Result: value,
		})
	}

	e.logger.Info("batch finished",
		"total", len(report.Results),
		"successful", report.Successful(),
		"failed", report.Failed())

	return report
}

// ExecutePlan runs the plan's operations. A plan in the error state is
// refused before any backend call: the translator already decided the
// request cannot be satisfied, and the error/suggestion pair is passed
// through verbatim as a *PlanError.
func (e *Executor) ExecutePlan(ctx context.Context, plan *Plan) (*Report, error) {
	if plan.IsError() {
		return nil, &PlanError{Message: plan.Error, Suggestion: plan.Suggestion}
	}
	return e.ExecuteBatch(ctx, plan.Operations), nil
}
