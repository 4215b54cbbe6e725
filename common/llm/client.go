package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Message roles understood by the chat completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrNoChoices is returned when the API answers without any completion choice.
var ErrNoChoices = errors.New("no choices in response")

type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Model() string
}

// Message represents a conversation message.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string
}

type Request struct {
	Messages    []Message
	MaxTokens   int      // 0 = model default
	Temperature *float64 // nil = model default, explicit 0 = deterministic
}

type Response struct {
	Content          string
	FinishReason     string
	PromptTokens     int
	CompletionTokens int
}

type Config struct {
	APIKey  string
	BaseURL string // Optional: custom API endpoint
	Model   string
}

type client struct {
	openai openai.Client
	model  string
}

// New creates an OpenAI-backed Client. The SDK's built-in retries are disabled:
// a failed completion surfaces immediately.
func New(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &client{
		openai: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

func (c *client) Complete(ctx context.Context, req Request) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: convertMessages(req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	start := time.Now()
	resp, err := c.openai.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	choice := resp.Choices[0]
	slog.DebugContext(ctx, "llm completion finished",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"finish_reason", choice.FinishReason)

	return &Response{
		Content:          choice.Message.Content,
		FinishReason:     string(choice.FinishReason),
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
	}, nil
}

func (c *client) Model() string {
	return c.model
}

func convertMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))

	for _, msg := range msgs {
		switch msg.Role {
		case RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case RoleUser:
			result = append(result, openai.UserMessage(msg.Content))
		case RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		}
	}

	return result
}

func Temp(t float64) *float64 {
	return &t
}

// Describe returns slog attributes for an upstream failure. API errors contribute
// their status and error code; anything else is reported by kind only.
func Describe(err error) []any {
	if err == nil {
		return nil
	}

	attrs := []any{"error", err.Error()}

	var apiErr *openai.Error
	switch {
	case errors.As(err, &apiErr):
		attrs = append(attrs,
			"upstream", "api",
			"status_code", apiErr.StatusCode,
			"error_type", apiErr.Type,
			"error_code", apiErr.Code)
	case errors.Is(err, context.DeadlineExceeded):
		attrs = append(attrs, "upstream", "timeout")
	case errors.Is(err, context.Canceled):
		attrs = append(attrs, "upstream", "canceled")
	case errors.Is(err, ErrNoChoices):
		attrs = append(attrs, "upstream", "empty_response")
	default:
		attrs = append(attrs, "upstream", "network")
	}

	return attrs
}
