package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/reelcraft/resolve-mcp/internal/operations"
	resolveApi "github.com/reelcraft/resolve-mcp/internal/resolve-api"
	"github.com/reelcraft/resolve-mcp/pkg/logger"
)

// Resource pairs an MCP resource definition with its handler.
type Resource struct {
	URI         string
	Name        string
	Description string
	MIMEType    string
	Handler     mcpserver.ResourceHandlerFunc
}

// logTailSize bounds the logs resource so clients never pull the whole buffer.
const logTailSize = 200

// ResourceSet exposes read-only Resolve state over MCP resources.
type ResourceSet struct {
	client *resolveApi.Client
	logs   *logger.RingBuffer
	logger *slog.Logger
}

func NewResourceSet(client *resolveApi.Client, logs *logger.RingBuffer, log *slog.Logger) *ResourceSet {
	return &ResourceSet{
		client: client,
		logs:   logs,
		logger: log,
	}
}

func (r *ResourceSet) Resources() []Resource {
	return []Resource{
		{
			URI:         "resolve://context",
			Name:        "Resolve Context",
			Description: "Current DaVinci Resolve state: project, timeline, tracks, clips, markers and media pool",
			MIMEType:    "application/json",
			Handler:     r.handleContextResource,
		},
		{
			URI:         "resolve://operations",
			Name:        "Operation Catalog",
			Description: "All operations the Resolve bridge understands, grouped by category",
			MIMEType:    "application/json",
			Handler:     r.handleOperationsResource,
		},
		{
			URI:         "resolve://logs",
			Name:        "Server Logs",
			Description: "Recent server log lines, with credentials redacted",
			MIMEType:    "text/plain",
			Handler:     r.handleLogsResource,
		},
	}
}

func (r *ResourceSet) handleContextResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	snapshot, err := r.client.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Resolve context: %w", err)
	}
	return jsonResource(req.Params.URI, snapshot)
}

func (r *ResourceSet) handleOperationsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, operations.Categories())
}

func (r *ResourceSet) handleLogsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	lines := SanitizeLogLines(r.logs.Last(logTailSize))
	text := ""
	for _, line := range lines {
		text += line + "\n"
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}

func jsonResource(uri string, value any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
