package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func completionBody(content string) string {
	payload := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-2024-08-06",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     10,
			"completion_tokens": 5,
			"total_tokens":      15,
		},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func TestOpenAIChatSuccess(t *testing.T) {
	var payload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("Alex: Welcome to the show.")))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})

	result, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{
			{Role: "system", Content: "You write podcast scripts."},
			{Role: "user", Content: "Write a script."},
		},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if !result.Success {
		t.Fatal("expected success result")
	}
	if result.Content != "Alex: Welcome to the show." {
		t.Fatalf("unexpected content: %q", result.Content)
	}
	if result.ModelUsed != "gpt-4o-2024-08-06" {
		t.Fatalf("unexpected model: %q", result.ModelUsed)
	}
	if result.PromptTokens != 10 || result.CompletionTokens != 5 || result.TotalTokens != 15 {
		t.Fatalf("unexpected usage: %d/%d/%d", result.PromptTokens, result.CompletionTokens, result.TotalTokens)
	}
	if result.Attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", result.Attempts)
	}
	if result.Provider != OpenAIName {
		t.Fatalf("unexpected provider: %q", result.Provider)
	}
	if result.RequestID == "" {
		t.Fatal("expected generated request ID")
	}

	if got, _ := payload["model"].(string); got != "gpt-4o" {
		t.Fatalf("expected default model gpt-4o, got %q", got)
	}
	messages, _ := payload["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if _, ok := payload["response_format"]; ok {
		t.Fatal("response_format should be absent without structured output")
	}
}

func TestOpenAIChatRetriesServerErrors(t *testing.T) {
	var calls atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"internal","type":"server_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("recovered")))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		RetryDelay: time.Millisecond,
	})

	result, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if result.Content != "recovered" {
		t.Fatalf("unexpected content: %q", result.Content)
	}
	if result.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", result.Attempts)
	}
}

func TestOpenAIChatFailsAfterRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"internal","type":"server_error"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
	})

	result, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !strings.Contains(err.Error(), "LLM call failed after 2 retries") {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Success {
		t.Fatal("result should not be marked successful")
	}
	if result.ErrorType != "server_error" {
		t.Fatalf("unexpected error type: %q", result.ErrorType)
	}
}

func TestOpenAIChatStructuredRepair(t *testing.T) {
	var calls atomic.Int64
	var secondBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			_, _ = w.Write([]byte(completionBody(`{"teachability": 12}`)))
			return
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &secondBody)
		_, _ = w.Write([]byte(completionBody(`{"teachability": 8}`)))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		RetryDelay: time.Millisecond,
	})

	schema := json.RawMessage(`{
		"type":"object",
		"properties":{"teachability":{"type":"integer","minimum":1,"maximum":10}},
		"required":["teachability"]
	}`)

	result, err := client.Chat(context.Background(), &ChatRequest{
		Messages:       []Message{{Role: "user", Content: "score it"}},
		ResponseFormat: &ResponseFormat{Type: "json_object", JSONSchema: schema},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls (original + repair), got %d", calls.Load())
	}

	var parsed map[string]any
	if err := json.Unmarshal(result.ParsedJSON, &parsed); err != nil {
		t.Fatalf("unmarshal ParsedJSON: %v", err)
	}
	if v, _ := parsed["teachability"].(float64); v != 8 {
		t.Fatalf("expected repaired value 8, got %v", parsed["teachability"])
	}

	// Repair request carries the failed output and the schema.
	messages, _ := secondBody["messages"].([]any)
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages in repair request, got %d", len(messages))
	}
	last, _ := messages[2].(map[string]any)
	content, _ := last["content"].(string)
	if !strings.Contains(content, "Validation issue") {
		t.Fatalf("repair prompt missing validation issue: %q", content)
	}

	// Token usage accumulates across both round trips.
	if result.TotalTokens != 30 {
		t.Fatalf("expected accumulated total tokens 30, got %d", result.TotalTokens)
	}
}

func TestOpenAIChatStructuredFailsAfterRepairs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody("still not json")))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		RetryDelay: time.Millisecond,
	})

	result, err := client.Chat(context.Background(), &ChatRequest{
		Messages:       []Message{{Role: "user", Content: "score it"}},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	if err == nil {
		t.Fatal("expected error for unparseable structured output")
	}
	if !strings.Contains(err.Error(), "structured output invalid after 2 repair attempts") {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ErrorType != "structured_output" {
		t.Fatalf("unexpected error type: %q", result.ErrorType)
	}
}

func TestOpenAIChatEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-test","object":"chat.completion","created":1700000000,"model":"gpt-4o","choices":[],"usage":{"prompt_tokens":0,"completion_tokens":0,"total_tokens":0}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
	})

	_, err := client.Chat(context.Background(), &ChatRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
	if !strings.Contains(err.Error(), "no choices in response") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMockClientQueue(t *testing.T) {
	mock := NewMockClient()
	mock.Responses = []string{"first", "second"}

	ctx := context.Background()
	for i, want := range []string{"first", "second", "mock response"} {
		result, err := mock.Chat(ctx, &ChatRequest{
			Messages: []Message{{Role: "user", Content: fmt.Sprintf("call %d", i)}},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Content != want {
			t.Fatalf("call %d: got %q, want %q", i, result.Content, want)
		}
	}

	if mock.RequestCount() != 3 {
		t.Fatalf("expected 3 requests, got %d", mock.RequestCount())
	}
	reqs := mock.Requests()
	if len(reqs) != 3 || reqs[0].Messages[0].Content != "call 0" {
		t.Fatal("recorded requests out of order")
	}
}

func TestMockClientStructured(t *testing.T) {
	mock := NewMockClient()
	if err := mock.QueueJSON(map[string]any{"sections": []any{}}); err != nil {
		t.Fatal(err)
	}

	result, err := mock.Chat(context.Background(), &ChatRequest{
		Messages:       []Message{{Role: "user", Content: "extract"}},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if len(result.ParsedJSON) == 0 {
		t.Fatal("expected parsed JSON")
	}

	mock.ResponseText = "not json"
	if _, err := mock.Chat(context.Background(), &ChatRequest{
		Messages:       []Message{{Role: "user", Content: "extract"}},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}); err == nil {
		t.Fatal("expected error for non-JSON mock response")
	}
}
