package ai

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/GenkiNakashima/systemst/internal/observability"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
)

// Operation labels for metrics and spans.
const (
	OperationFactCheck = "fact_check"
	OperationRespond   = "generate_response"
)

// Config configures the OpenAI-backed client.
type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	FactTimeout     time.Duration
	ResponseTimeout time.Duration
	HTTPClient      *http.Client
}

// Client implements FactChecker and ResponseGenerator on the chat completions API.
// Calls are never retried; each is bounded by its own timeout.
type Client struct {
	api             openai.Client
	configured      bool
	model           string
	factTimeout     time.Duration
	responseTimeout time.Duration
}

// NewClient builds a client. A missing API key yields a client whose calls
// fail with ErrNotConfigured.
func NewClient(cfg Config) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	model := cfg.Model
	if model == "" {
		model = string(openai.ChatModelGPT3_5Turbo)
	}
	factTimeout := cfg.FactTimeout
	if factTimeout <= 0 {
		factTimeout = 10 * time.Second
	}
	responseTimeout := cfg.ResponseTimeout
	if responseTimeout <= 0 {
		responseTimeout = 15 * time.Second
	}

	return &Client{
		api:             openai.NewClient(opts...),
		configured:      strings.TrimSpace(cfg.APIKey) != "",
		model:           model,
		factTimeout:     factTimeout,
		responseTimeout: responseTimeout,
	}
}

// FactCheck asks the model whether content contains clear misinformation.
func (c *Client) FactCheck(ctx context.Context, content string) (Verdict, error) {
	answer, err := c.complete(ctx, OperationFactCheck, c.factTimeout, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(factCheckSystemPrompt),
			openai.UserMessage(factCheckUserPrefix + content),
		},
		MaxTokens:   openai.Int(factCheckMaxTokens),
		Temperature: openai.Float(factCheckTemperature),
	})
	if err != nil {
		return Verdict{}, err
	}
	return ParseVerdict(answer), nil
}

// GenerateResponse answers question with conversationContext appended to the system prompt.
func (c *Client) GenerateResponse(ctx context.Context, question, conversationContext string) (string, error) {
	answer, err := c.complete(ctx, OperationRespond, c.responseTimeout, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(assistantPrompt(conversationContext)),
			openai.UserMessage(question),
		},
		MaxTokens:   openai.Int(assistantMaxTokens),
		Temperature: openai.Float(assistantTemperature),
	})
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", ErrEmptyResponse
	}
	return answer, nil
}

func (c *Client) complete(ctx context.Context, operation string, timeout time.Duration, params openai.ChatCompletionNewParams) (string, error) {
	if !c.configured {
		return "", ErrNotConfigured
	}

	ctx, span := observability.StartClientSpan(ctx, "ai."+operation,
		attribute.String("ai.operation", operation),
		attribute.String("ai.model", c.model),
	)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	params.Model = openai.ChatModel(c.model)
	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		observability.EndSpan(span, err)
		return "", err
	}
	observability.EndSpan(span, nil)

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
