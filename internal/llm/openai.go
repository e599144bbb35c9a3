package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	OpenAIName         = "openai"
	openAIDefaultModel = "gpt-4o"
)

// OpenAIConfig holds configuration for the OpenAI chat client.
type OpenAIConfig struct {
	APIKey     string
	Model      string        // "gpt-4o" (default)
	MaxRetries int           // Attempts per call (default: 3)
	RetryDelay time.Duration // Base delay, doubled per retry (default: 1s)
	Timeout    time.Duration // HTTP timeout
	BaseURL    string        // Optional (tests)
	HTTPClient *http.Client  // Optional (tests)
	Logger     *slog.Logger
}

// OpenAIClient implements Client using the official OpenAI SDK.
type OpenAIClient struct {
	defaultModel string
	maxRetries   int
	retryDelay   time.Duration
	client       openai.Client
	logger       *slog.Logger
}

// NewOpenAIClient creates a new OpenAI chat client.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		// Retries happen in complete() so every attempt is logged.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClient{
		defaultModel: cfg.Model,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
		client:       openai.NewClient(opts...),
		logger:       cfg.Logger,
	}
}

// Name returns the client identifier.
func (c *OpenAIClient) Name() string {
	return OpenAIName
}

// Chat sends a chat completion request. When req.ResponseFormat is set the
// response is parsed as JSON, validated against the schema if one is
// provided, and repaired with follow-up round trips when invalid.
func (c *OpenAIClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: toOpenAIMessages(req.Messages),
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.ResponseFormat != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	result := &ChatResult{
		RequestID: requestID,
		Provider:  OpenAIName,
	}

	completion, err := c.complete(ctx, result, params)
	if err != nil {
		result.ErrorType = classifyError(err)
		result.ErrorMessage = err.Error()
		result.ExecutionTime = time.Since(start)
		return result, err
	}
	applyCompletion(result, completion)

	// Parse, validate, and repair structured output if requested.
	if req.ResponseFormat != nil {
		parsed, perr := parseStructuredJSON(result.Content)
		if perr == nil {
			perr = validateStructuredJSON(req.ResponseFormat.JSONSchema, parsed)
		}

		for attempt := 1; perr != nil && attempt <= maxStructuredRepairAttempts; attempt++ {
			c.logger.Warn("structured output invalid, requesting repair",
				"request_id", requestID,
				"attempt", attempt,
				"error", perr)

			repairParams := params
			repairParams.Messages = append(append([]openai.ChatCompletionMessageParamUnion{}, params.Messages...),
				openai.AssistantMessage(result.Content),
				openai.UserMessage(structuredRepairPrompt(req.ResponseFormat.JSONSchema, result.Content, perr)),
			)

			completion, err = c.complete(ctx, result, repairParams)
			if err != nil {
				result.ErrorType = classifyError(err)
				result.ErrorMessage = err.Error()
				result.ExecutionTime = time.Since(start)
				return result, err
			}
			applyCompletion(result, completion)

			parsed, perr = parseStructuredJSON(result.Content)
			if perr == nil {
				perr = validateStructuredJSON(req.ResponseFormat.JSONSchema, parsed)
			}
		}

		if perr != nil {
			result.ErrorType = "structured_output"
			result.ErrorMessage = perr.Error()
			result.ExecutionTime = time.Since(start)
			return result, fmt.Errorf("structured output invalid after %d repair attempts: %w", maxStructuredRepairAttempts, perr)
		}
		result.ParsedJSON = parsed
	}

	result.Success = true
	result.ExecutionTime = time.Since(start)
	return result, nil
}

// complete makes one SDK call with retry. The base delay doubles on each
// retry (1s, 2s, ...) and every failed attempt is logged.
func (c *OpenAIClient) complete(ctx context.Context, result *ChatResult, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	var completion *openai.ChatCompletion
	err := retry.Do(
		func() error {
			result.Attempts++
			var err error
			completion, err = c.client.Chat.Completions.New(ctx, params)
			if err != nil {
				return err
			}
			if len(completion.Choices) == 0 {
				return fmt.Errorf("no choices in response")
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("LLM call failed", "attempt", n+1, "max_attempts", c.maxRetries, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed after %d retries: %w", c.maxRetries, err)
	}
	return completion, nil
}

// applyCompletion copies content and accumulates token usage so repair
// round trips are reflected in the final counts.
func applyCompletion(result *ChatResult, completion *openai.ChatCompletion) {
	result.Content = completion.Choices[0].Message.Content
	result.ModelUsed = completion.Model
	result.PromptTokens += int(completion.Usage.PromptTokens)
	result.CompletionTokens += int(completion.Usage.CompletionTokens)
	result.TotalTokens += int(completion.Usage.TotalTokens)
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func classifyError(err error) string {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return "rate_limited"
		case apiErr.StatusCode >= 500:
			return "server_error"
		default:
			return "api_error"
		}
	}
	return "http_error"
}

// Verify interface
var _ Client = (*OpenAIClient)(nil)
