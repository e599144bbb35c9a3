// Package llmcall provides LLM call recording and budgeting for traceability.
// Every agent call is appended to a JSONL log with its token usage, and a
// shared budget caps how many calls a single run may make.
package llmcall

import (
	"time"

	"github.com/google/uuid"

	"github.com/pagecast/pagecast/internal/llm"
)

// Call represents a recorded LLM API call.
type Call struct {
	// Unique identifier
	ID string `json:"id"`

	// Timing
	Timestamp time.Time `json:"timestamp"`
	LatencyMs int       `json:"latency_ms,omitempty"`

	// Agent context
	Agent     string `json:"agent"`
	Iteration int    `json:"iteration"`

	// Model info
	Model string `json:"model"`

	// Payload sizes
	PromptLengthChars   int `json:"prompt_length_chars"`
	ResponseLengthChars int `json:"response_length_chars"`

	// Token usage
	Usage Usage `json:"usage"`

	// Evaluator scores, null for non-scoring calls
	Scores any `json:"scores"`
}

// Usage holds token counts for one call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// RecordOptions provides context for recording an LLM call.
type RecordOptions struct {
	Agent     string
	Iteration int
	Scores    any
}

// FromChatResult creates a Call from a request/result pair.
// Returns nil if result is nil.
func FromChatResult(req *llm.ChatRequest, result *llm.ChatResult, opts RecordOptions) *Call {
	if result == nil {
		return nil
	}

	model := result.ModelUsed
	if model == "" && req != nil {
		model = req.Model
	}

	promptLen := 0
	if req != nil {
		promptLen = req.PromptLength()
	}

	return &Call{
		ID:                  uuid.New().String(),
		Timestamp:           time.Now().UTC().Truncate(time.Second),
		LatencyMs:           int(result.ExecutionTime.Milliseconds()),
		Agent:               opts.Agent,
		Iteration:           opts.Iteration,
		Model:               model,
		PromptLengthChars:   promptLen,
		ResponseLengthChars: len(result.Content),
		Usage: Usage{
			PromptTokens:     result.PromptTokens,
			CompletionTokens: result.CompletionTokens,
		},
		Scores: opts.Scores,
	}
}
