package resolveApi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/reelcraft/resolve-mcp/pkg/config"
)

// bridgeCommand is the request written to the bridge's stdin, one command
// per process invocation.
type bridgeCommand struct {
	Op     string          `json:"op"`
	Params json.RawMessage `json:"params,omitempty"`
}

// bridgeResponse is the single JSON document the bridge prints to stdout.
type bridgeResponse struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

// Client talks to DaVinci Resolve by spawning the Python bridge script
// once per operation. It implements engine.Backend.
type Client struct {
	config config.BridgeConfig
	cache  *snapshotCache
	logger *slog.Logger
}

func NewClient(bridgeCfg config.BridgeConfig, cacheCfg config.CacheConfig, logger *slog.Logger) *Client {
	return &Client{
		config: bridgeCfg,
		cache:  newSnapshotCache(cacheCfg, logger),
		logger: logger,
	}
}

// Execute performs one named operation. Read-only operations may be served
// from the snapshot cache; any mutating operation invalidates it, since the
// bridge is the sole source of truth for Resolve state.
func (c *Client) Execute(ctx context.Context, name string, params json.RawMessage) (json.RawMessage, error) {
	if name == "" {
		return nil, fmt.Errorf("operation name cannot be empty")
	}

	readOnly := isReadOnly(name)
	if readOnly {
		if result, err, found := c.cache.Get(name, params); found {
			return result, err
		}
	} else {
		c.cache.Invalidate()
	}

	result, err := c.executeDirect(ctx, name, params)

	if readOnly {
		c.cache.Set(name, params, result, err)
	}

	return result, err
}

func (c *Client) executeDirect(ctx context.Context, name string, params json.RawMessage) (json.RawMessage, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	input, err := json.Marshal(bridgeCommand{Op: name, Params: params})
	if err != nil {
		return nil, fmt.Errorf("failed to encode bridge command: %w", err)
	}

	c.logger.Debug("executing bridge command",
		"op", name,
		"python", c.config.PythonPath,
		"script", c.config.ScriptPath)

	cmd := exec.CommandContext(cmdCtx, c.config.PythonPath, c.config.ScriptPath)
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() != nil {
			return nil, fmt.Errorf("bridge command %s timed out: %w", name, cmdCtx.Err())
		}
		c.logger.Error("bridge process failed",
			"op", name,
			"error", err,
			"stderr", stderr.String())
		return nil, fmt.Errorf("failed to run bridge at %s: %w", c.config.PythonPath, err)
	}

	if stderr.Len() > 0 {
		c.logger.Warn("bridge stderr", "op", name, "stderr", strings.TrimSpace(stderr.String()))
	}

	return decodeBridgeResponse(stdout.Bytes())
}

// decodeBridgeResponse parses the bridge's stdout into either the raw
// result value or a typed *BridgeError.
func decodeBridgeResponse(output []byte) (json.RawMessage, error) {
	var response bridgeResponse
	if err := json.Unmarshal(output, &response); err != nil {
		return nil, fmt.Errorf("failed to parse bridge response %q: %w", strings.TrimSpace(string(output)), err)
	}

	if !response.Success {
		message := response.Error
		if message == "" {
			message = "unknown error"
		}
		code := response.Code
		if code == "" {
			code = CodePythonError
		}
		return nil, &BridgeError{Code: code, Message: message}
	}

	if len(response.Result) == 0 {
		return json.RawMessage("null"), nil
	}
	return response.Result, nil
}

// isReadOnly classifies operations that never change Resolve state and are
// therefore safe to serve from cache.
func isReadOnly(name string) bool {
	return strings.HasPrefix(name, "get_") || strings.HasPrefix(name, "check_")
}

// CheckConnection asks the bridge whether Resolve is running and reachable.
func (c *Client) CheckConnection(ctx context.Context) (*ConnectionInfo, error) {
	result, err := c.Execute(ctx, "check_connection", nil)
	if err != nil {
		return nil, err
	}
	var info ConnectionInfo
	if err := json.Unmarshal(result, &info); err != nil {
		return nil, fmt.Errorf("failed to decode connection info: %w", err)
	}
	return &info, nil
}

// GetContext fetches the full Resolve state snapshot.
func (c *Client) GetContext(ctx context.Context) (*Context, error) {
	result, err := c.Execute(ctx, "get_context", nil)
	if err != nil {
		return nil, err
	}
	var snapshot Context
	if err := json.Unmarshal(result, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode context snapshot: %w", err)
	}
	return &snapshot, nil
}

// CheckPython reports the interpreter version, for the doctor command.
func (c *Client) CheckPython(ctx context.Context) (string, error) {
	output, err := exec.CommandContext(ctx, c.config.PythonPath, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("python not found at %s: %w", c.config.PythonPath, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// ScriptExists reports whether the bridge script is present on disk.
func (c *Client) ScriptExists() bool {
	_, err := os.Stat(c.config.ScriptPath)
	return err == nil
}
