package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/codevibe-de/offer-assistant/internal/core/domain"
)

func TestCompleteSendsModelTokensAndHeaders(t *testing.T) {
	var captured messagesRequest
	var apiKey, version string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		apiKey = r.Header.Get("x-api-key")
		version = r.Header.Get("anthropic-version")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(messagesResponse{Content: []contentBlock{
			{Type: "text", Text: `  {"data":{}}  `},
		}})
	}))
	defer server.Close()

	client := New(Config{
		BaseURL:   server.URL,
		APIKey:    "sk-test",
		Model:     "claude-sonnet-4-6",
		MaxTokens: 1024,
	}, nil)

	out, err := client.Complete(context.Background(), "extract this")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != `{"data":{}}` {
		t.Fatalf("expected trimmed text block, got %q", out)
	}
	if captured.Model != "claude-sonnet-4-6" {
		t.Fatalf("unexpected model %q", captured.Model)
	}
	if captured.MaxTokens != 1024 {
		t.Fatalf("unexpected max_tokens %d", captured.MaxTokens)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" || captured.Messages[0].Content != "extract this" {
		t.Fatalf("unexpected messages %+v", captured.Messages)
	}
	if apiKey != "sk-test" {
		t.Fatalf("unexpected api key header %q", apiKey)
	}
	if version != defaultAPIVersion {
		t.Fatalf("unexpected version header %q", version)
	}
}

func TestCompleteSkipsNonTextBlocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(messagesResponse{Content: []contentBlock{
			{Type: "thinking", Text: "hmm"},
			{Type: "text", Text: "answer"},
		}})
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL}, nil)
	out, err := client.Complete(context.Background(), "p")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "answer" {
		t.Fatalf("expected first text block, got %q", out)
	}
}

func TestCompleteErrorsWhenNoTextContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(messagesResponse{Content: []contentBlock{}})
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL}, nil)
	_, err := client.Complete(context.Background(), "p")
	if !domain.IsKind(err, domain.ErrExtractionService) {
		t.Fatalf("expected ErrExtractionService, got %v", err)
	}
	if !strings.Contains(err.Error(), "no text content") {
		t.Fatalf("expected no-text-content cause, got %v", err)
	}
}

func TestCompleteSurfacesHTTPStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL}, nil)
	_, err := client.Complete(context.Background(), "p")
	if !domain.IsKind(err, domain.ErrExtractionService) {
		t.Fatalf("expected ErrExtractionService, got %v", err)
	}
	if !strings.Contains(err.Error(), "rate_limit_error") {
		t.Fatalf("expected upstream body in error, got %v", err)
	}
}

func TestCompleteHonorsCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(messagesResponse{Content: []contentBlock{{Type: "text", Text: "x"}}})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New(Config{BaseURL: server.URL}, nil)
	if _, err := client.Complete(ctx, "p"); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestNewNormalizesBaseURLAndDefaults(t *testing.T) {
	client := New(Config{BaseURL: "https://api.anthropic.com/"}, nil)
	if client.cfg.BaseURL != "https://api.anthropic.com" {
		t.Fatalf("expected trimmed base url, got %q", client.cfg.BaseURL)
	}
	if client.cfg.Version != defaultAPIVersion {
		t.Fatalf("expected default version, got %q", client.cfg.Version)
	}
	if client.cfg.Timeout <= 0 {
		t.Fatalf("expected default timeout, got %v", client.cfg.Timeout)
	}
}

func TestClassifyProviderError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		record bool
	}{
		{"nil", nil, false},
		{"cancelled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"server error", &HTTPStatusError{StatusCode: http.StatusInternalServerError}, true},
		{"rate limited", &HTTPStatusError{StatusCode: http.StatusTooManyRequests}, true},
		{"bad request", &HTTPStatusError{StatusCode: http.StatusBadRequest}, false},
		{"unauthorized", &HTTPStatusError{StatusCode: http.StatusUnauthorized}, false},
	}
	for _, tc := range cases {
		if got := classifyProviderError(tc.err); got.RecordFailure != tc.record {
			t.Fatalf("%s: RecordFailure = %v, want %v", tc.name, got.RecordFailure, tc.record)
		}
	}
}
