package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/reelcraft/resolve-mcp/internal/engine"
	resolveApi "github.com/reelcraft/resolve-mcp/internal/resolve-api"
)

// ToolStatus represents the high-level status of a tool call
type ToolStatus string

const (
	ToolStatusOK      ToolStatus = "ok"
	ToolStatusError   ToolStatus = "error"
	ToolStatusPartial ToolStatus = "partial"
)

// ToolResponse is the canonical envelope returned by tools
type ToolResponse struct {
	Status    ToolStatus `json:"status"`
	Code      string     `json:"code,omitempty"`
	Message   string     `json:"message,omitempty"`
	RequestID string     `json:"requestId,omitempty"`
	Data      any        `json:"data,omitempty"`
	Hint      string     `json:"hint,omitempty"`
}

// marshal pretty JSON for readability in clients
func (r ToolResponse) marshal(logger *slog.Logger) string {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		if logger != nil {
			logger.Error("failed to marshal tool response", "error", err, "code", r.Code)
		}
		fallback := ToolResponse{Status: ToolStatusError, Code: "tool_response_marshal_error", Message: "failed to serialize tool response"}
		fb, _ := json.MarshalIndent(fallback, "", "  ")
		return string(fb)
	}
	return string(b)
}

// NewResult builds an MCP result from a ToolResponse, stamping a request id
// so clients can correlate envelopes with server logs.
func NewResult(resp ToolResponse) *mcp.CallToolResult {
	return NewResultWithLogger(resp, nil)
}

// NewResultWithLogger builds an MCP result from a ToolResponse using the provided logger
func NewResultWithLogger(resp ToolResponse, logger *slog.Logger) *mcp.CallToolResult {
	if resp.RequestID == "" {
		resp.RequestID = uuid.NewString()
	}
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.TextContent{Type: "text", Text: resp.marshal(logger)}}}
}

// OK is a convenience for success responses
func OK(message string, data any) *mcp.CallToolResult {
	return NewResult(ToolResponse{Status: ToolStatusOK, Message: message, Data: data})
}

// Error is a convenience for error responses
func Error(code, message, hint string, data any) *mcp.CallToolResult {
	return NewResult(ToolResponse{Status: ToolStatusError, Code: code, Message: message, Hint: hint, Data: data})
}

// Partial is a convenience for partial success responses
func Partial(message string, data any) *mcp.CallToolResult {
	return NewResult(ToolResponse{Status: ToolStatusPartial, Message: message, Data: data})
}

// reportResponse maps an execution outcome onto the envelope. A run where
// every operation succeeded (or there was nothing to do) is ok; a run where
// every operation failed is an error; anything in between is partial.
func reportResponse(outcome *engine.Outcome) ToolResponse {
	switch {
	case outcome.BatchDryRun != nil:
		return ToolResponse{
			Status:  ToolStatusOK,
			Message: fmt.Sprintf("batch is valid (%d operations, not executed)", outcome.BatchDryRun.Count),
			Data:    outcome.BatchDryRun,
		}
	case outcome.PlanDryRun != nil:
		return ToolResponse{
			Status:  ToolStatusOK,
			Message: "plan is valid (not executed)",
			Data:    outcome.PlanDryRun,
		}
	}

	report := outcome.Report
	total := len(report.Results)
	failed := report.Failed()

	switch {
	case failed == 0:
		return ToolResponse{
			Status:  ToolStatusOK,
			Message: fmt.Sprintf("executed %d operations", total),
			Data:    report,
		}
	case failed == total:
		return ToolResponse{
			Status:  ToolStatusError,
			Code:    "all_operations_failed",
			Message: fmt.Sprintf("all %d operations failed", total),
			Data:    report,
		}
	default:
		return ToolResponse{
			Status:  ToolStatusPartial,
			Message: fmt.Sprintf("%d of %d operations failed", failed, total),
			Data:    report,
		}
	}
}

// errorResponse maps engine and bridge errors onto envelope codes. The
// suggestion of a refused plan travels in the hint field.
func errorResponse(err error) ToolResponse {
	var planErr *engine.PlanError
	if errors.As(err, &planErr) {
		return ToolResponse{
			Status:  ToolStatusError,
			Code:    "plan_refused",
			Message: planErr.Message,
			Hint:    planErr.Suggestion,
		}
	}

	var invalidErr *engine.InvalidPlanError
	if errors.As(err, &invalidErr) {
		return ToolResponse{Status: ToolStatusError, Code: "invalid_plan", Message: err.Error()}
	}

	var parseErr *engine.ParseError
	if errors.As(err, &parseErr) {
		return ToolResponse{Status: ToolStatusError, Code: "parse_error", Message: err.Error()}
	}

	if bridgeErr, ok := resolveApi.IsBridgeError(err); ok {
		return ToolResponse{Status: ToolStatusError, Code: bridgeErr.Code, Message: bridgeErr.Message}
	}

	return ToolResponse{Status: ToolStatusError, Code: "internal_error", Message: err.Error()}
}
