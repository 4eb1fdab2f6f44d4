//go:build !integration

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	resolveApi "github.com/reelcraft/resolve-mcp/internal/resolve-api"
	"github.com/reelcraft/resolve-mcp/pkg/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// fakeBackend records calls and answers per operation name.
type fakeBackend struct {
	calls []string
	fail  map[string]error
}

func (f *fakeBackend) Execute(ctx context.Context, name string, params json.RawMessage) (json.RawMessage, error) {
	f.calls = append(f.calls, name)
	if err, ok := f.fail[name]; ok {
		return nil, err
	}
	return json.RawMessage(`{"done": true}`), nil
}

func decodeEnvelope(result *mcp.CallToolResult) ToolResponse {
	text := result.Content[0].(mcp.TextContent).Text
	var envelope ToolResponse
	ExpectWithOffset(1, json.Unmarshal([]byte(text), &envelope)).To(Succeed())
	return envelope
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

var _ = Describe("ToolSet", func() {
	var (
		backend *fakeBackend
		toolset *ToolSet
	)

	BeforeEach(func() {
		backend = &fakeBackend{fail: map[string]error{}}
		cfg := config.DefaultConfig()
		cfg.LLM.Provider = "custom"
		client := resolveApi.NewClient(config.BridgeConfig{
			PythonPath: "nonexistent-python",
			ScriptPath: "nonexistent-script",
			Timeout:    time.Second,
		}, config.CacheConfig{}, testLogger())
		toolset = NewToolSet(cfg, client, backend, testLogger())
	})

	Describe("run_batch", func() {
		It("executes the operations in order and reports ok", func() {
			req := callRequest("run_batch", map[string]any{
				"operations": []any{
					map[string]any{"op": "add_marker", "params": map[string]any{"frame": 10}},
					map[string]any{"op": "save_project"},
				},
			})

			result, err := toolset.handleRunBatch(context.Background(), req)
			Expect(err).NotTo(HaveOccurred())

			envelope := decodeEnvelope(result)
			Expect(envelope.Status).To(Equal(ToolStatusOK))
			Expect(backend.calls).To(Equal([]string{"add_marker", "save_project"}))
		})

		It("reports partial when some operations fail", func() {
			backend.fail["unknown_op"] = fmt.Errorf("Unsupported operation: unknown_op")

			req := callRequest("run_batch", map[string]any{
				"operations": []any{
					map[string]any{"op": "add_marker"},
					map[string]any{"op": "unknown_op"},
				},
			})

			result, err := toolset.handleRunBatch(context.Background(), req)
			Expect(err).NotTo(HaveOccurred())

			envelope := decodeEnvelope(result)
			Expect(envelope.Status).To(Equal(ToolStatusPartial))
			Expect(envelope.Message).To(Equal("1 of 2 operations failed"))
		})

		It("validates without executing when dry_run is set", func() {
			req := callRequest("run_batch", map[string]any{
				"operations": []any{map[string]any{"op": "add_marker"}},
				"dry_run":    true,
			})

			result, err := toolset.handleRunBatch(context.Background(), req)
			Expect(err).NotTo(HaveOccurred())

			envelope := decodeEnvelope(result)
			Expect(envelope.Status).To(Equal(ToolStatusOK))
			Expect(envelope.Message).To(ContainSubstring("not executed"))
			Expect(backend.calls).To(BeEmpty())
		})

		It("rejects a batch with unnamed operations", func() {
			req := callRequest("run_batch", map[string]any{
				"operations": []any{map[string]any{"op": ""}},
			})

			result, err := toolset.handleRunBatch(context.Background(), req)
			Expect(err).NotTo(HaveOccurred())

			envelope := decodeEnvelope(result)
			Expect(envelope.Status).To(Equal(ToolStatusError))
			Expect(envelope.Code).To(Equal("invalid_plan"))
			Expect(backend.calls).To(BeEmpty())
		})

		It("requires the operations argument", func() {
			result, err := toolset.handleRunBatch(context.Background(), callRequest("run_batch", map[string]any{}))
			Expect(err).NotTo(HaveOccurred())
			Expect(decodeEnvelope(result).Code).To(Equal("invalid_input"))
		})
	})

	Describe("run_plan", func() {
		It("executes a plan document", func() {
			req := callRequest("run_plan", map[string]any{
				"plan": map[string]any{
					"version": "1.0",
					"target":  map[string]any{"project": "Demo", "timeline": "Main"},
					"operations": []any{
						map[string]any{"op": "add_marker", "params": map[string]any{"frame": 100}},
					},
				},
			})

			result, err := toolset.handleRunPlan(context.Background(), req)
			Expect(err).NotTo(HaveOccurred())
			Expect(decodeEnvelope(result).Status).To(Equal(ToolStatusOK))
			Expect(backend.calls).To(Equal([]string{"add_marker"}))
		})

		It("refuses an error-state plan without touching the backend", func() {
			req := callRequest("run_plan", map[string]any{
				"plan": map[string]any{
					"version":    "1.0",
					"error":      "Cannot create transitions",
					"suggestion": "Add them manually in the Edit page",
				},
			})

			result, err := toolset.handleRunPlan(context.Background(), req)
			Expect(err).NotTo(HaveOccurred())

			envelope := decodeEnvelope(result)
			Expect(envelope.Status).To(Equal(ToolStatusError))
			Expect(envelope.Code).To(Equal("plan_refused"))
			Expect(envelope.Message).To(Equal("Cannot create transitions"))
			Expect(envelope.Hint).To(Equal("Add them manually in the Edit page"))
			Expect(backend.calls).To(BeEmpty())
		})
	})

	Describe("execute_operation", func() {
		It("runs a single operation", func() {
			req := callRequest("execute_operation", map[string]any{
				"op":     "add_marker",
				"params": map[string]any{"frame": 50, "color": "Blue"},
			})

			result, err := toolset.handleExecuteOperation(context.Background(), req)
			Expect(err).NotTo(HaveOccurred())
			Expect(decodeEnvelope(result).Status).To(Equal(ToolStatusOK))
			Expect(backend.calls).To(Equal([]string{"add_marker"}))
		})

		It("requires the operation name", func() {
			result, err := toolset.handleExecuteOperation(context.Background(), callRequest("execute_operation", map[string]any{}))
			Expect(err).NotTo(HaveOccurred())
			Expect(decodeEnvelope(result).Code).To(Equal("invalid_input"))
		})
	})

	Describe("list_operations", func() {
		It("lists the catalog grouped by category", func() {
			result, err := toolset.handleListOperations(context.Background(), callRequest("list_operations", nil))
			Expect(err).NotTo(HaveOccurred())

			envelope := decodeEnvelope(result)
			Expect(envelope.Status).To(Equal(ToolStatusOK))
			Expect(envelope.Message).To(ContainSubstring("operations available"))

			data, merr := json.Marshal(envelope.Data)
			Expect(merr).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring(`"add_marker"`))
		})
	})
})
