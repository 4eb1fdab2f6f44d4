//go:build !integration

package interpreter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

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

var _ = Describe("extractJSON", func() {
	It("passes bare JSON through unchanged", func() {
		Expect(extractJSON(`{"version": "1.0"}`)).To(Equal(`{"version": "1.0"}`))
	})

	It("strips a json code fence", func() {
		text := "```json\n{\"version\": \"1.0\"}\n```"
		Expect(extractJSON(text)).To(Equal(`{"version": "1.0"}`))
	})

	It("strips an unlabeled code fence", func() {
		text := "```\n{\"version\": \"1.0\"}\n```"
		Expect(extractJSON(text)).To(Equal(`{"version": "1.0"}`))
	})

	It("trims surrounding whitespace", func() {
		Expect(extractJSON("  \n{\"a\": 1}\n  ")).To(Equal(`{"a": 1}`))
	})

	It("leaves a fence without a closer alone", func() {
		Expect(extractJSON("```json\n{\"a\": 1}")).To(Equal("```json\n{\"a\": 1}"))
	})
})

var _ = Describe("buildPrompt", func() {
	It("includes the context snapshot and the request", func() {
		snapshot := &resolveApi.Context{Product: "DaVinci Resolve", Version: "19.0"}
		prompt := buildPrompt(snapshot, "add a blue marker at frame 100")
		Expect(prompt).To(ContainSubstring("## Current Context"))
		Expect(prompt).To(ContainSubstring(`"product": "DaVinci Resolve"`))
		Expect(prompt).To(ContainSubstring("add a blue marker at frame 100"))
	})
})

var _ = Describe("Client", func() {
	// A local server speaking the OpenAI chat shape stands in for every
	// provider; the "custom" provider points straight at it without auth.
	newTestClient := func(handler http.HandlerFunc) (*Client, *httptest.Server) {
		server := httptest.NewServer(handler)
		client, err := NewClient(config.LLMConfig{
			Provider:  "custom",
			Model:     "test-model",
			BaseURL:   server.URL,
			MaxTokens: 1024,
		}, testLogger())
		Expect(err).NotTo(HaveOccurred())
		return client, server
	}

	chatResponse := func(content string) []byte {
		payload, err := json.Marshal(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
		Expect(err).NotTo(HaveOccurred())
		return payload
	}

	Describe("GeneratePlan", func() {
		It("parses a fenced plan from the completion", func() {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/chat/completions"))
				_, _ = w.Write(chatResponse("```json\n" + `{
					"version": "1.0",
					"target": {"project": "Demo", "timeline": "Main"},
					"operations": [{"op": "add_marker", "params": {"frame": 100, "color": "Blue"}}]
				}` + "\n```"))
			})
			defer server.Close()

			plan, err := client.GeneratePlan(context.Background(), &resolveApi.Context{Product: "DaVinci Resolve"}, "add a marker")
			Expect(err).NotTo(HaveOccurred())
			Expect(plan.Operations).To(HaveLen(1))
			Expect(plan.Operations[0].Op).To(Equal("add_marker"))
			Expect(*plan.Target.Project).To(Equal("Demo"))
		})

		It("passes an error plan through as a valid plan", func() {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write(chatResponse(`{"version": "1.0", "error": "Cannot move clips on timeline", "suggestion": "Drag them in the UI"}`))
			})
			defer server.Close()

			plan, err := client.GeneratePlan(context.Background(), nil, "move clip 3 before clip 1")
			Expect(err).NotTo(HaveOccurred())
			Expect(plan.IsError()).To(BeTrue())
			Expect(plan.Error).To(Equal("Cannot move clips on timeline"))
		})

		It("rejects a plan with unnamed operations", func() {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write(chatResponse(`{"version": "1.0", "operations": [{"op": ""}]}`))
			})
			defer server.Close()

			_, err := client.GeneratePlan(context.Background(), nil, "do something")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("invalid plan"))
		})

		It("fails when the model answers with prose", func() {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write(chatResponse("Sure! I can help with that."))
			})
			defer server.Close()

			_, err := client.GeneratePlan(context.Background(), nil, "add a marker")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to parse model response"))
		})

		It("surfaces provider errors with the status code", func() {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error": "model not loaded"}`, http.StatusInternalServerError)
			})
			defer server.Close()

			_, err := client.GeneratePlan(context.Background(), nil, "add a marker")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("api error (500)"))
		})

		It("sends the configured model and the request in the payload", func() {
			var captured map[string]any
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				Expect(json.NewDecoder(r.Body).Decode(&captured)).To(Succeed())
				_, _ = w.Write(chatResponse(`{"version": "1.0", "operations": []}`))
			})
			defer server.Close()

			_, err := client.GeneratePlan(context.Background(), nil, "rename the first video track")
			Expect(err).NotTo(HaveOccurred())
			Expect(captured["model"]).To(Equal("test-model"))
			messages := captured["messages"].([]any)
			content := messages[0].(map[string]any)["content"].(string)
			Expect(content).To(ContainSubstring("rename the first video track"))
		})
	})

	Describe("ListModels", func() {
		It("lists model identifiers from the provider", func() {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/models"))
				_, _ = w.Write([]byte(`{"data": [{"id": "qwen2.5-7b"}, {"id": "llama-3.1-8b"}]}`))
			})
			defer server.Close()

			models, err := client.ListModels(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(models).To(Equal([]string{"qwen2.5-7b", "llama-3.1-8b"}))
		})
	})

	Describe("NewClient", func() {
		It("rejects an unknown provider at plan time", func() {
			client, err := NewClient(config.LLMConfig{Provider: "custom", BaseURL: "http://localhost:1"}, testLogger())
			Expect(err).NotTo(HaveOccurred())
			client.provider = "mystery"
			_, err = client.GeneratePlan(context.Background(), nil, "anything")
			Expect(err).To(MatchError(ContainSubstring("unknown provider")))
		})
	})
})
