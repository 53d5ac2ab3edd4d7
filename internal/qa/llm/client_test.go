package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jurisph/legal-qa-backend/internal/qa/domain"
	"github.com/jurisph/legal-qa-backend/internal/qa/prompt"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Options{
		BaseURL:   baseURL,
		APIKey:    "test-key",
		ChatModel: "test-model",
		Timeout:   time.Second,
	})
}

func TestCompleteSendsConstrainedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %q", got)
		}

		var req struct {
			Model       string  `json:"model"`
			Temperature float64 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		if req.Model != "test-model" {
			t.Errorf("unexpected model: %q", req.Model)
		}
		if req.Temperature != Temperature {
			t.Errorf("temperature must be pinned at %v, got %v", Temperature, req.Temperature)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("expected system+user messages, got %d", len(req.Messages))
		}
		if req.Messages[0].Role != "system" || req.Messages[0].Content != prompt.SystemInstruction {
			t.Errorf("unexpected system message: %+v", req.Messages[0])
		}
		if req.Messages[1].Role != "user" || req.Messages[1].Content != "the prompt" {
			t.Errorf("unexpected user message: %+v", req.Messages[1])
		}

		w.Write([]byte(`{"choices":[{"message":{"content":"Due process is..."}}]}`))
	}))
	defer server.Close()

	answer, err := newTestClient(server.URL).Complete(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "Due process is..." {
		t.Errorf("unexpected answer: %q", answer)
	}
}

func TestCompleteNoChoicesIsEmptyAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	answer, err := newTestClient(server.URL).Complete(context.Background(), "p")
	if err != nil {
		t.Fatalf("no choices must not be an error, got: %v", err)
	}
	if answer != "" {
		t.Errorf("expected empty answer, got %q", answer)
	}
}

func TestCompleteUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), "p")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *domain.GenerationError, got %T", err)
	}
	if genErr.Status != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", genErr.Status)
	}
}

func TestCompleteUnreachableService(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1").Complete(context.Background(), "p")

	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *domain.GenerationError, got %T", err)
	}
}

func TestEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req struct {
			Model string `json:"model"`
			Input string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Input != "due process" {
			t.Errorf("unexpected input: %q", req.Input)
		}
		if req.Model == "" {
			t.Error("expected embedding model to be set")
		}

		w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer server.Close()

	vec, err := newTestClient(server.URL).Embed(context.Background(), "due process")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 3 || vec[0] != 0.1 {
		t.Errorf("unexpected vector: %v", vec)
	}
}

func TestEmbedUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Embed(context.Background(), "text")

	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected *domain.GenerationError, got %T", err)
	}
}
