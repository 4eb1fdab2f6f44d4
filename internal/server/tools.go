package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/reelcraft/resolve-mcp/internal/engine"
	"github.com/reelcraft/resolve-mcp/internal/interpreter"
	"github.com/reelcraft/resolve-mcp/internal/operations"
	resolveApi "github.com/reelcraft/resolve-mcp/internal/resolve-api"
	"github.com/reelcraft/resolve-mcp/pkg/config"
)

// Tool pairs an MCP tool definition with its handler.
type Tool struct {
	Name    string
	Builder func() mcp.Tool
	Handler mcpserver.ToolHandlerFunc
}

// ToolSet exposes the execution engine and the bridge over MCP tools.
type ToolSet struct {
	dispatcher *engine.Dispatcher
	client     *resolveApi.Client
	llm        config.LLMConfig
	logger     *slog.Logger
}

func NewToolSet(cfg *config.ServerConfig, client *resolveApi.Client, backend engine.Backend, logger *slog.Logger) *ToolSet {
	return &ToolSet{
		dispatcher: engine.NewDispatcher(backend, logger),
		client:     client,
		llm:        cfg.LLM,
		logger:     logger,
	}
}

func (t *ToolSet) Tools() []Tool {
	return []Tool{
		{Name: "run_batch", Builder: t.buildRunBatchTool, Handler: t.handleRunBatch},
		{Name: "run_plan", Builder: t.buildRunPlanTool, Handler: t.handleRunPlan},
		{Name: "run_request", Builder: t.buildRunRequestTool, Handler: t.handleRunRequest},
		{Name: "execute_operation", Builder: t.buildExecuteOperationTool, Handler: t.handleExecuteOperation},
		{Name: "list_operations", Builder: t.buildListOperationsTool, Handler: t.handleListOperations},
		{Name: "get_context", Builder: t.buildGetContextTool, Handler: t.handleGetContext},
		{Name: "check_connection", Builder: t.buildCheckConnectionTool, Handler: t.handleCheckConnection},
	}
}

// Tool builders
func (t *ToolSet) buildRunBatchTool() mcp.Tool {
	return mcp.NewTool(
		"run_batch",
		mcp.WithDescription("Execute a list of DaVinci Resolve operations in order. Operations run best-effort: a failing operation is recorded and the rest still run."),
		mcp.WithArray("operations",
			mcp.Required(),
			mcp.Description("Operations to execute, each as {\"op\": string, \"params\": object}"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Validate the batch without executing anything"),
		),
	)
}

func (t *ToolSet) buildRunPlanTool() mcp.Tool {
	return mcp.NewTool(
		"run_plan",
		mcp.WithDescription("Execute a full execution plan document (version, target, preconditions, operations). A plan carrying an error field is refused without touching Resolve."),
		mcp.WithObject("plan",
			mcp.Required(),
			mcp.Description("The plan document to execute"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Validate the plan without executing anything"),
		),
	)
}

func (t *ToolSet) buildRunRequestTool() mcp.Tool {
	return mcp.NewTool(
		"run_request",
		mcp.WithDescription("Translate a natural language editing request into a plan using the configured LLM, then execute it against DaVinci Resolve."),
		mcp.WithString("request",
			mcp.Required(),
			mcp.Description("The editing request in natural language"),
		),
		mcp.WithBoolean("dry_run",
			mcp.Description("Return the generated plan without executing it"),
		),
	)
}

func (t *ToolSet) buildExecuteOperationTool() mcp.Tool {
	return mcp.NewTool(
		"execute_operation",
		mcp.WithDescription("Execute a single named operation against DaVinci Resolve"),
		mcp.WithString("op",
			mcp.Required(),
			mcp.Description("Operation name, e.g. add_marker"),
		),
		mcp.WithObject("params",
			mcp.Description("Operation parameters"),
		),
	)
}

func (t *ToolSet) buildListOperationsTool() mcp.Tool {
	return mcp.NewTool(
		"list_operations",
		mcp.WithDescription("List all operations the Resolve bridge understands, grouped by category"),
	)
}

func (t *ToolSet) buildGetContextTool() mcp.Tool {
	return mcp.NewTool(
		"get_context",
		mcp.WithDescription("Get the current DaVinci Resolve state: project, timeline, tracks, clips, markers and media pool"),
	)
}

func (t *ToolSet) buildCheckConnectionTool() mcp.Tool {
	return mcp.NewTool(
		"check_connection",
		mcp.WithDescription("Check whether DaVinci Resolve is running and reachable through the scripting bridge"),
	)
}

// Tool handlers
func (t *ToolSet) handleRunBatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := req.GetArguments()["operations"]
	if !ok {
		return Error("invalid_input", "The operations list is required", "", nil), nil
	}

	document, err := json.Marshal(raw)
	if err != nil {
		return Error("invalid_input", fmt.Sprintf("Failed to encode operations: %v", err), "", nil), nil
	}

	return t.run(ctx, engine.Input{Inline: string(document)}, req.GetBool("dry_run", false)), nil
}

func (t *ToolSet) handleRunPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := req.GetArguments()["plan"]
	if !ok {
		return Error("invalid_input", "The plan document is required", "", nil), nil
	}

	document, err := json.Marshal(raw)
	if err != nil {
		return Error("invalid_input", fmt.Sprintf("Failed to encode plan: %v", err), "", nil), nil
	}

	return t.run(ctx, engine.Input{Inline: string(document)}, req.GetBool("dry_run", false)), nil
}

func (t *ToolSet) handleRunRequest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	request, err := req.RequireString("request")
	if err != nil {
		return Error("invalid_input", "The request text is required", "", nil), nil
	}

	// The LLM client is built per call so that a missing API key only
	// breaks this tool, not server startup.
	llm, err := interpreter.NewClient(t.llm, t.logger)
	if err != nil {
		return Error("llm_not_configured", err.Error(), "Set llm.api_key or the provider's environment variable", nil), nil
	}

	snapshot, err := t.client.GetContext(ctx)
	if err != nil {
		t.logger.Warn("generating plan without Resolve context", "error", err)
		snapshot = nil
	}

	plan, err := llm.GeneratePlan(ctx, snapshot, request)
	if err != nil {
		return NewResultWithLogger(errorResponse(err), t.logger), nil
	}

	return t.run(ctx, engine.Input{Plan: plan}, req.GetBool("dry_run", false)), nil
}

func (t *ToolSet) handleExecuteOperation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("op")
	if err != nil {
		return Error("invalid_input", "The operation name is required", "", nil), nil
	}

	if !operations.Known(name) {
		t.logger.Debug("executing operation outside the catalog", "op", name)
	}

	var params json.RawMessage
	if raw, ok := req.GetArguments()["params"]; ok {
		params, err = json.Marshal(raw)
		if err != nil {
			return Error("invalid_input", fmt.Sprintf("Failed to encode params: %v", err), "", nil), nil
		}
	}

	steps := []engine.OperationStep{{Op: name, Params: params}}
	return t.run(ctx, engine.Input{Steps: steps}, false), nil
}

func (t *ToolSet) handleListOperations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return OK(fmt.Sprintf("%d operations available", len(operations.All())), operations.Categories()), nil
}

func (t *ToolSet) handleGetContext(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snapshot, err := t.client.GetContext(ctx)
	if err != nil {
		return NewResultWithLogger(errorResponse(err), t.logger), nil
	}
	return OK("Resolve context snapshot", snapshot), nil
}

func (t *ToolSet) handleCheckConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := t.client.CheckConnection(ctx)
	if err != nil {
		return NewResultWithLogger(errorResponse(err), t.logger), nil
	}
	return OK(fmt.Sprintf("Connected to %s %s", info.Product, info.Version), info), nil
}

// run pushes a unit through the dispatcher and wraps the outcome.
func (t *ToolSet) run(ctx context.Context, input engine.Input, dryRun bool) *mcp.CallToolResult {
	mode := engine.ModeExecute
	if dryRun {
		mode = engine.ModeDryRun
	}

	outcome, err := t.dispatcher.Run(ctx, input, mode)
	if err != nil {
		return NewResultWithLogger(errorResponse(err), t.logger)
	}
	return NewResultWithLogger(reportResponse(outcome), t.logger)
}
