// Package interpreter turns natural language requests into execution plans
// by calling a configured LLM provider. Plans it produces flow into the
// same validation and execution path as hand-written ones.
package interpreter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/reelcraft/resolve-mcp/internal/engine"
	resolveApi "github.com/reelcraft/resolve-mcp/internal/resolve-api"
	"github.com/reelcraft/resolve-mcp/pkg/config"
)

const (
	anthropicURL  = "https://api.anthropic.com/v1/messages"
	openRouterURL = "https://openrouter.ai/api/v1/chat/completions"
)

// Client calls one of the supported LLM providers to generate plans.
type Client struct {
	provider  string
	model     string
	apiKey    string
	baseURL   string
	maxTokens int
	http      *http.Client
	logger    *slog.Logger
}

// NewClient builds a plan-generation client. It fails when the provider
// requires an API key and none is configured.
func NewClient(cfg config.LLMConfig, logger *slog.Logger) (*Client, error) {
	apiKey, err := cfg.ResolveAPIKey()
	if err != nil {
		return nil, err
	}
	return &Client{
		provider:  cfg.Provider,
		model:     cfg.ModelName(),
		apiKey:    apiKey,
		baseURL:   cfg.BaseURL,
		maxTokens: cfg.MaxTokens,
		http:      &http.Client{Timeout: 120 * time.Second},
		logger:    logger,
	}, nil
}

// GeneratePlan asks the provider to translate the request into a plan,
// given the current Resolve context. The returned plan is validated but may
// be in the error state - that is the model's structured way of refusing.
func (c *Client) GeneratePlan(ctx context.Context, snapshot *resolveApi.Context, request string) (*engine.Plan, error) {
	prompt := buildPrompt(snapshot, request)

	c.logger.Debug("generating plan", "provider", c.provider, "model", c.model)

	var responseText string
	var err error
	switch c.provider {
	case "anthropic":
		responseText, err = c.callAnthropic(ctx, prompt)
	case "openai", "lmstudio", "custom":
		responseText, err = c.callOpenAICompatible(ctx, prompt)
	case "openrouter":
		responseText, err = c.callOpenRouter(ctx, prompt)
	default:
		return nil, fmt.Errorf("unknown provider: %s", c.provider)
	}
	if err != nil {
		return nil, err
	}

	jsonText := extractJSON(responseText)

	var plan engine.Plan
	if err := json.Unmarshal([]byte(jsonText), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse model response as plan: %w (response: %s)", err, responseText)
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("model produced an invalid plan: %w", err)
	}

	return &plan, nil
}

// ListModels fetches the provider's model list (OpenAI wire shape:
// {"data": [{"id": "..."}]}). Providers without a models endpoint return
// an error from the HTTP layer.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("no base URL configured for provider %s", c.provider)
	}
	url := strings.TrimRight(c.baseURL, "/") + "/models"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	body, err := c.send(req)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse models response: %w", err)
	}

	models := make([]string, 0, len(parsed.Data))
	for _, entry := range parsed.Data {
		models = append(models, entry.ID)
	}
	return models, nil
}

// extractJSON strips markdown code fences the model may wrap its answer in.
func extractJSON(text string) string {
	trimmed := strings.TrimSpace(text)

	without, found := strings.CutPrefix(trimmed, "```json")
	if !found {
		without, found = strings.CutPrefix(trimmed, "```")
	}
	if found {
		if end := strings.LastIndex(without, "```"); end >= 0 {
			return strings.TrimSpace(without[:end])
		}
	}

	return trimmed
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *Client) callAnthropic(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"model":      c.model,
		"max_tokens": c.maxTokens,
		"messages":   []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("content-type", "application/json")

	body, err := c.send(req)
	if err != nil {
		return "", err
	}

	var response struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse anthropic response: %w", err)
	}
	if len(response.Content) == 0 || response.Content[0].Text == "" {
		return "", fmt.Errorf("empty response from anthropic")
	}
	return response.Content[0].Text, nil
}

func (c *Client) callOpenAICompatible(ctx context.Context, prompt string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("no base URL configured for provider %s", c.provider)
	}
	url := strings.TrimRight(c.baseURL, "/") + "/chat/completions"
	return c.chatCompletions(ctx, url, prompt, c.apiKey != "")
}

func (c *Client) callOpenRouter(ctx context.Context, prompt string) (string, error) {
	return c.chatCompletions(ctx, openRouterURL, prompt, true)
}

// chatCompletions covers every provider speaking the OpenAI chat shape.
func (c *Client) chatCompletions(ctx context.Context, url, prompt string, withAuth bool) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"model":      c.model,
		"max_tokens": c.maxTokens,
		"messages":   []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("content-type", "application/json")
	if withAuth && c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	body, err := c.send(req)
	if err != nil {
		return "", err
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse completion response: %w", err)
	}
	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from %s", c.provider)
	}
	return response.Choices[0].Message.Content, nil
}

func (c *Client) send(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s: %w", req.URL.Host, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", req.URL.Host, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("api error (%d) from %s: %s", resp.StatusCode, req.URL.Host, strings.TrimSpace(string(body)))
	}

	return body, nil
}
