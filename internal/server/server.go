package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"

	"github.com/reelcraft/resolve-mcp/pkg/config"
)

// NewMCPServerInstance creates a new MCP server instance.
func NewMCPServerInstance(cfg *config.ServerConfig, logger *slog.Logger) *server.MCPServer {
	logger.Debug("Creating MCP server instance")
	version := "dev"
	mcpServer := server.NewMCPServer(
		"Resolve MCP Server",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
	)
	logger.Debug("MCP server instance created successfully")
	return mcpServer
}

// registerCapabilities attaches every tool and resource to the MCP server.
func registerCapabilities(mcpServer *server.MCPServer, tools *ToolSet, resources *ResourceSet, logger *slog.Logger) {
	for _, tool := range tools.Tools() {
		mcpServer.AddTool(tool.Builder(), tool.Handler)
		logger.Debug("Tool registered", "tool", tool.Name)
	}

	for _, resource := range resources.Resources() {
		mcpResource := mcp.NewResource(
			resource.URI,
			resource.Name,
			mcp.WithResourceDescription(resource.Description),
			mcp.WithMIMEType(resource.MIMEType),
		)
		mcpServer.AddResource(mcpResource, resource.Handler)
		logger.Debug("Resource registered", "resource", resource.Name, "uri", resource.URI)
	}
}

// registerServerHooks uses fx.Hook to manage the server's lifecycle.
func registerServerHooks(lc fx.Lifecycle, cfg *config.ServerConfig, mcpServer *server.MCPServer, tools *ToolSet, resources *ResourceSet, logger *slog.Logger) {
	var sseServer *server.SSEServer

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			registerCapabilities(mcpServer, tools, resources, logger)

			switch cfg.Transport.Type {
			case "sse":
				logger.Info("Starting MCP server with 'sse' transport.")
				sseServer = server.NewSSEServer(mcpServer)
				go func() {
					addr := fmt.Sprintf("%s:%d", cfg.Transport.Host, cfg.Transport.Port)
					logger.Info("SSE server listening", "address", addr)
					if err := sseServer.Start(addr); err != nil && err != http.ErrServerClosed {
						logger.Error("SSE server failed", "error", err)
					}
				}()
			case "stdio":
				logger.Info("Starting MCP server with 'stdio' transport.")
				go func() {
					if err := server.ServeStdio(mcpServer); err != nil {
						logger.Error("Stdio server failed", "error", err)
					}
				}()
			default:
				return fmt.Errorf("unknown transport type: %s", cfg.Transport.Type)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if sseServer != nil {
				logger.Info("Shutting down SSE server gracefully...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				return sseServer.Shutdown(shutdownCtx)
			}
			logger.Info("Stdio server shutdown.")
			return nil
		},
	})
}
